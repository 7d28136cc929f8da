package queue

import (
	"fmt"

	"github.com/canopyml/canopy/dataset"
	"github.com/canopyml/canopy/tree"
)

// Task represents a tree.Node to be developed.
type Task struct {
	// An ID to identify the task on the queue.
	ID string
	// The node to be developed. The worker processing the task has
	// exclusive access to it until the task is completed.
	Node *tree.Node
	// The dataset of training data with samples satisfying the
	// questions on the path from the root to the node.
	Dataset dataset.Dataset
}

func (t *Task) String() string {
	return fmt.Sprintf("{Task %s}", t.ID)
}
