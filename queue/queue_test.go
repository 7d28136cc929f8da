package queue

import (
	"context"
	"fmt"
	"testing"
)

func TestQueuePushPullFIFO(t *testing.T) {
	ctx := context.Background()
	q := New()
	for i := 0; i < 5; i++ {
		err := q.Push(ctx, &Task{ID: fmt.Sprintf("%d", i)})
		if err != nil {
			t.Fatalf("pushing task %d: %v", i, err)
		}
	}
	for i := 0; i < 5; i++ {
		task, err := q.Pull(ctx)
		if err != nil {
			t.Fatalf("pulling task %d: %v", i, err)
		}
		if task == nil {
			t.Fatalf("expected a task on pull %d, got nil", i)
		}
		if task.ID != fmt.Sprintf("%d", i) {
			t.Errorf("expected task %d, got task %s", i, task.ID)
		}
	}
}

func TestQueuePullEmpty(t *testing.T) {
	ctx := context.Background()
	q := New()
	task, err := q.Pull(ctx)
	if err != nil {
		t.Fatalf("pulling from an empty queue: %v", err)
	}
	if task != nil {
		t.Errorf("expected nil task from an empty queue, got %v", task)
	}
}

func TestQueueCount(t *testing.T) {
	ctx := context.Background()
	q := New()
	err := q.Push(ctx, &Task{ID: "1"})
	if err != nil {
		t.Fatalf("pushing: %v", err)
	}
	err = q.Push(ctx, &Task{ID: "2"})
	if err != nil {
		t.Fatalf("pushing: %v", err)
	}
	pending, running, err := q.Count(ctx)
	if err != nil {
		t.Fatalf("counting: %v", err)
	}
	if pending != 2 || running != 0 {
		t.Errorf("expected 2 pending and 0 running, got %d and %d", pending, running)
	}
	_, err = q.Pull(ctx)
	if err != nil {
		t.Fatalf("pulling: %v", err)
	}
	pending, running, err = q.Count(ctx)
	if err != nil {
		t.Fatalf("counting: %v", err)
	}
	if pending != 1 || running != 1 {
		t.Errorf("expected 1 pending and 1 running after a pull, got %d and %d", pending, running)
	}
}

func TestQueueDropReturnsTask(t *testing.T) {
	ctx := context.Background()
	q := New()
	err := q.Push(ctx, &Task{ID: "1"})
	if err != nil {
		t.Fatalf("pushing: %v", err)
	}
	task, err := q.Pull(ctx)
	if err != nil {
		t.Fatalf("pulling: %v", err)
	}
	err = q.Drop(ctx, task.ID)
	if err != nil {
		t.Fatalf("dropping: %v", err)
	}
	pending, running, err := q.Count(ctx)
	if err != nil {
		t.Fatalf("counting: %v", err)
	}
	if pending != 1 || running != 0 {
		t.Errorf("expected the dropped task to be pending again, got %d pending and %d running", pending, running)
	}
	again, err := q.Pull(ctx)
	if err != nil {
		t.Fatalf("pulling again: %v", err)
	}
	if again == nil || again.ID != "1" {
		t.Errorf("expected to pull the dropped task again, got %v", again)
	}
}

func TestQueueCompleteRemovesTask(t *testing.T) {
	ctx := context.Background()
	q := New()
	err := q.Push(ctx, &Task{ID: "1"})
	if err != nil {
		t.Fatalf("pushing: %v", err)
	}
	task, err := q.Pull(ctx)
	if err != nil {
		t.Fatalf("pulling: %v", err)
	}
	err = q.Complete(ctx, task.ID)
	if err != nil {
		t.Fatalf("completing: %v", err)
	}
	// dropping a completed task must not resurrect it
	err = q.Drop(ctx, task.ID)
	if err != nil {
		t.Fatalf("dropping: %v", err)
	}
	pending, running, err := q.Count(ctx)
	if err != nil {
		t.Fatalf("counting: %v", err)
	}
	if pending != 0 || running != 0 {
		t.Errorf("expected an empty queue after completing, got %d pending and %d running", pending, running)
	}
}

func TestQueueInterleavedPushPull(t *testing.T) {
	ctx := context.Background()
	q := New()
	next := 0
	push := func(n int) {
		for i := 0; i < n; i++ {
			if err := q.Push(ctx, &Task{ID: fmt.Sprintf("%d", next)}); err != nil {
				t.Fatalf("pushing task %d: %v", next, err)
			}
			next++
		}
	}
	expected := 0
	pull := func(n int) {
		for i := 0; i < n; i++ {
			task, err := q.Pull(ctx)
			if err != nil {
				t.Fatalf("pulling: %v", err)
			}
			if task == nil {
				t.Fatal("expected a task, got nil")
			}
			if task.ID != fmt.Sprintf("%d", expected) {
				t.Fatalf("expected task %d, got task %s", expected, task.ID)
			}
			expected++
		}
	}
	push(3)
	pull(2)
	push(4)
	pull(5)
	push(2)
	pull(2)
	pending, _, err := q.Count(ctx)
	if err != nil {
		t.Fatalf("counting: %v", err)
	}
	if pending != 0 {
		t.Errorf("expected an empty queue, got %d pending tasks", pending)
	}
}
