/*
Package canopy grows binary classification trees from tabular data
whose feature schema is declared at runtime.

A tree is grown by recursively searching for the question (a feature
paired with a value observed in the training data) whose split of the
dataset yields the highest information gain measured by Gini impurity,
partitioning the dataset by that question and growing a subtree from
each side. A subset no question can improve becomes a leaf holding the
subset's label distribution, which is what classifying a sample
returns.
*/
package canopy

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/canopyml/canopy/dataset"
	"github.com/canopyml/canopy/feature"
	"github.com/canopyml/canopy/queue"
	"github.com/canopyml/canopy/tree"
)

/*
ErrEmptyTrainingSet is the error returned when trying to grow a tree
from a dataset with no samples.
*/
const ErrEmptyTrainingSet = GrowError("cannot grow tree from empty training set")

// GrowError represents an error growing a tree
type GrowError string

func (ge GrowError) Error() string {
	return string(ge)
}

const emptyQueueSleep = 10 * time.Millisecond

/*
Grower grows classification trees that predict a label feature from a
slice of features, according to the training data on a dataset.
*/
type Grower struct {
	// The features trees may ask about, in the order split search
	// will enumerate them. The label must not be among them.
	Features []feature.Feature
	// The feature grown trees predict.
	Label feature.Feature
	// The number of workers developing subtrees concurrently.
	// Values below 2 grow the tree on the calling goroutine.
	// The grown tree does not depend on this setting: each node's
	// split is determined only by the node's own subset of samples.
	Workers int

	taskSeq uint64
}

/*
New takes a slice of features, a label feature and a number of workers
and returns a Grower with them.
*/
func New(features []feature.Feature, label feature.Feature, workers int) *Grower {
	return &Grower{Features: features, Label: label, Workers: workers}
}

/*
Grow takes a context and a dataset of training samples and returns the
grown tree.Tree or an error. Growing a tree from an empty dataset
fails with ErrEmptyTrainingSet.
*/
func (g *Grower) Grow(ctx context.Context, s dataset.Dataset) (*tree.Tree, error) {
	count, err := s.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("growing tree: %v", err)
	}
	if count == 0 {
		return nil, ErrEmptyTrainingSet
	}
	var root *tree.Node
	if g.Workers > 1 {
		root, err = g.growConcurrently(ctx, s)
	} else {
		root, err = g.grow(ctx, s)
	}
	if err != nil {
		return nil, err
	}
	return tree.New(root, g.Label), nil
}

/*
Grow takes a context, a dataset of training samples, a slice of
features and a label feature, and grows a tree predicting the label
on the calling goroutine. It is shorthand for growing with a Grower.
*/
func Grow(ctx context.Context, s dataset.Dataset, features []feature.Feature, label feature.Feature) (*tree.Tree, error) {
	return New(features, label, 0).Grow(ctx, s)
}

func (g *Grower) grow(ctx context.Context, s dataset.Dataset) (*tree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := &tree.Node{}
	subtrees, err := g.branchOut(ctx, n, s)
	if err != nil {
		return nil, err
	}
	for _, st := range subtrees {
		sn, err := g.grow(ctx, st.Dataset)
		if err != nil {
			return nil, err
		}
		*st.Node = *sn
	}
	return n, nil
}

/*
branchOut develops the given node from the given dataset: it either
makes it a leaf with the dataset's label distribution, when no
question achieves any information gain, or makes it a decision node
on the best question found and returns a task for each of the two
children, to be developed from the two sides of the partition.
*/
func (g *Grower) branchOut(ctx context.Context, n *tree.Node, s dataset.Dataset) ([]*queue.Task, error) {
	gain, q, err := FindBestSplit(ctx, s, g.Features, g.Label)
	if err != nil {
		return nil, err
	}
	if q == nil || gain == 0 {
		prediction, err := tree.NewPredictionFromDataset(ctx, s, g.Label)
		if err != nil {
			return nil, err
		}
		n.Prediction = prediction
		return nil, nil
	}
	matching, rest, err := Partition(ctx, q, s)
	if err != nil {
		return nil, err
	}
	n.Question = q
	n.True = &tree.Node{}
	n.False = &tree.Node{}
	return []*queue.Task{
		{ID: g.nextTaskID(), Node: n.True, Dataset: matching},
		{ID: g.nextTaskID(), Node: n.False, Dataset: rest},
	}, nil
}

func (g *Grower) growConcurrently(ctx context.Context, s dataset.Dataset) (*tree.Node, error) {
	q := queue.New()
	defer q.Stop(ctx)
	root := &tree.Node{}
	err := q.Push(ctx, &queue.Task{ID: g.nextTaskID(), Node: root, Dataset: s})
	if err != nil {
		return nil, err
	}
	errs := make(chan error, g.Workers)
	var wg sync.WaitGroup
	for i := 0; i < g.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- g.work(ctx, q)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return root, nil
}

/*
work enters a loop in which it pulls a task from the queue, branches
its node out and pushes the tasks for the new subnodes back. When no
task can be pulled and the sum of tasks running and pending on the
queue is 0, the worker ends returning nil; if the sum is not 0 it
sleeps briefly and retries. A non-nil error is returned if the given
context times out or is cancelled, or if developing a node fails.
*/
func (g *Grower) work(ctx context.Context, q queue.Queue) error {
	for {
		task, err := q.Pull(ctx)
		if err != nil {
			return err
		}
		if task == nil {
			pending, running, err := q.Count(ctx)
			if err != nil {
				return err
			}
			if pending+running == 0 {
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(emptyQueueSleep):
			}
			continue
		}
		err = g.workTask(ctx, task, q)
		if err != nil {
			return err
		}
		if err = ctx.Err(); err != nil {
			return err
		}
	}
}

func (g *Grower) workTask(ctx context.Context, task *queue.Task, q queue.Queue) error {
	defer func() {
		q.Drop(ctx, task.ID)
	}()
	tasks, err := g.branchOut(ctx, task.Node, task.Dataset)
	if err != nil {
		return err
	}
	for _, st := range tasks {
		err = q.Push(ctx, st)
		if err != nil {
			return err
		}
	}
	return q.Complete(ctx, task.ID)
}

func (g *Grower) nextTaskID() string {
	return fmt.Sprintf("%d", atomic.AddUint64(&g.taskSeq, 1))
}
