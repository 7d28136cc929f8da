package tree

import (
	"github.com/canopyml/canopy/feature"
)

/*
Node is a node of the tree: either a decision node holding a question
and exclusively owning its two children, or a leaf holding the label
distribution of the training samples that reached it.
*/
type Node struct {
	// The question the node asks about samples. nil on leaves.
	Question feature.Question
	// The subtree for samples that match the question.
	True *Node
	// The subtree for samples that do not match the question.
	False *Node
	// The label distribution for samples that satisfied node
	// questions from the root of the tree down to this leaf.
	// nil on decision nodes.
	Prediction *Prediction
}

/*
NewLeaf takes a prediction and returns a leaf node holding it.
*/
func NewLeaf(p *Prediction) *Node {
	return &Node{Prediction: p}
}

/*
NewDecision takes a question and the two subtrees for samples
matching and not matching it and returns a decision node owning them.
*/
func NewDecision(q feature.Question, trueBranch, falseBranch *Node) *Node {
	return &Node{Question: q, True: trueBranch, False: falseBranch}
}

/*
IsLeaf returns whether the node is a leaf.
*/
func (n *Node) IsLeaf() bool {
	return n.Question == nil
}
