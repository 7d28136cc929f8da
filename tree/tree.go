package tree

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/canopyml/canopy/dataset"
	"github.com/canopyml/canopy/feature"
)

// Tree represents a grown classification tree. It is composed of the
// root of a binary structure of decision and leaf nodes and the label
// feature it is able to predict.
type Tree struct {
	Root  *Node
	Label feature.Feature
}

// New takes the root Node and a label feature and returns a tree that
// classifies samples into the label's values by traversing the nodes
// under the root.
func New(root *Node, label feature.Feature) *Tree {
	return &Tree{root, label}
}

// Classify takes a sample and walks the tree evaluating each decision
// node's question against it, descending into the matching branch
// until a leaf is reached, whose label distribution is returned. An
// error is returned if a feature value cannot be obtained for the
// sample or the tree is nil or empty.
func (t *Tree) Classify(sample feature.Sample) (*Prediction, error) {
	if t == nil || t.Root == nil {
		return nil, fmt.Errorf("nil tree cannot classify samples")
	}
	n := t.Root
	for !n.IsLeaf() {
		ok, err := n.Question.Match(sample)
		if err != nil {
			return nil, err
		}
		if ok {
			n = n.True
		} else {
			n = n.False
		}
	}
	if n.Prediction == nil {
		return nil, ErrCannotClassifySample
	}
	return n.Prediction, nil
}

/*
Test takes a context.Context and a dataset and returns three values:
 * the classification success rate of the tree over the given dataset,
   counting a sample as a success when the most frequent label of its
   predicted distribution equals its actual label
 * the number of samples that could not be classified because of
   ErrCannotClassifySample errors
 * an error if a sample could not be classified for reasons other than
   the tree not being able to do so. If this is not nil, the other
   values will be 0.0 and 0 respectively.
*/
func (t *Tree) Test(ctx context.Context, s dataset.Dataset) (float64, int, error) {
	if t == nil {
		return 0.0, 0, nil
	}
	var result float64
	var errCount int
	samples, err := s.Samples(ctx)
	if err != nil {
		return 0.0, 0, err
	}
	count, err := s.Count(ctx)
	if err != nil {
		return 0.0, 0, err
	}
	for _, sample := range samples {
		p, err := t.Classify(sample)
		if err != nil {
			if err != ErrCannotClassifySample {
				return 0.0, 0, err
			}
			errCount++
			continue
		}
		pV, _ := p.PredictedValue()
		v, err := sample.ValueFor(t.Label)
		if err != nil {
			return 0.0, 0, err
		}
		if pV == v {
			result += 1.0
		}
	}
	result = result / float64(count)
	return result, errCount, nil
}

/*
Render writes a human-readable dump of the tree onto the given
io.Writer: decision nodes as their question ("is color == Red",
"is size >= 50") followed by the matching branch under "--> True:"
and the non-matching branch under "--> False:", each indented one
level further, and leaves as their label distribution in truncated
integer percentages. An error is returned if the tree holds a
question of an unsupported kind or the writer fails.
*/
func (t *Tree) Render(w io.Writer) error {
	if t == nil || t.Root == nil {
		return fmt.Errorf("nil tree cannot be rendered")
	}
	return renderNode(w, t.Root, "")
}

func renderNode(w io.Writer, n *Node, indent string) error {
	if n.IsLeaf() {
		_, err := fmt.Fprintf(w, "%s%v\n", indent, n.Prediction)
		return err
	}
	switch q := n.Question.(type) {
	case *feature.EqualityQuestion, *feature.ThresholdQuestion:
		if _, err := fmt.Fprintf(w, "%s%v\n", indent, q); err != nil {
			return err
		}
	default:
		return fmt.Errorf("rendering tree: unsupported question kind %T on feature %s", n.Question, n.Question.Feature().Name())
	}
	if _, err := fmt.Fprintf(w, "%s--> True:\n", indent); err != nil {
		return err
	}
	if err := renderNode(w, n.True, indent+"  "); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s--> False:\n", indent); err != nil {
		return err
	}
	return renderNode(w, n.False, indent+"  ")
}

func (t *Tree) String() string {
	var buf bytes.Buffer
	err := t.Render(&buf)
	if err != nil {
		return fmt.Sprintf("ERROR: %s\n", err.Error())
	}
	return buf.String()
}
