package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cascadehq/cascade"
	"github.com/cascadehq/cascade/checkpoint"
	"github.com/cascadehq/cascade/id"
	"github.com/cascadehq/cascade/step"
	"github.com/cascadehq/cascade/store/memory"
)

func newCheckpoint(runID id.RunID, order ...string) *checkpoint.Checkpoint {
	results := make(map[string]step.Result, len(order))
	for i, stepID := range order {
		results[stepID] = step.Result{StepID: stepID, Status: step.StatusCompleted, Seq: i + 1}
	}
	return checkpoint.New(runID, results, map[string]any{"n": len(order)}, order, nil)
}

func TestSaveAndGet(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	runID := id.NewRunID()

	cp := newCheckpoint(runID, "a")
	if err := s.SaveCheckpoint(ctx, cp); err != nil {
		t.Fatalf("SaveCheckpoint: %v", err)
	}

	got, err := s.GetCheckpoint(ctx, cp.ID)
	if err != nil {
		t.Fatalf("GetCheckpoint: %v", err)
	}
	if got.RunID.String() != runID.String() {
		t.Errorf("run id = %s, want %s", got.RunID, runID)
	}
	if len(got.CompletedOrder) != 1 || got.CompletedOrder[0] != "a" {
		t.Errorf("completed order = %v, want [a]", got.CompletedOrder)
	}

	// The store hands out copies.
	got.State["n"] = 99
	again, err := s.GetCheckpoint(ctx, cp.ID)
	if err != nil {
		t.Fatalf("GetCheckpoint: %v", err)
	}
	if again.State["n"] != 1 {
		t.Error("mutation of a returned checkpoint leaked into the store")
	}
}

func TestGetUnknown(t *testing.T) {
	s := memory.New()

	_, err := s.GetCheckpoint(context.Background(), id.NewCheckpointID())
	if !errors.Is(err, cascade.ErrCheckpointNotFound) {
		t.Errorf("error = %v, want ErrCheckpointNotFound", err)
	}
}

func TestListFiltersByRunAndOrders(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	run1 := id.NewRunID()
	run2 := id.NewRunID()

	first := newCheckpoint(run1, "a")
	second := newCheckpoint(run1, "a", "b")
	other := newCheckpoint(run2, "x")
	for _, cp := range []*checkpoint.Checkpoint{first, second, other} {
		if err := s.SaveCheckpoint(ctx, cp); err != nil {
			t.Fatalf("SaveCheckpoint: %v", err)
		}
	}

	cps, err := s.ListCheckpoints(ctx, run1)
	if err != nil {
		t.Fatalf("ListCheckpoints: %v", err)
	}
	if len(cps) != 2 {
		t.Fatalf("list = %d checkpoints, want 2", len(cps))
	}
	if cps[0].ID.String() != first.ID.String() || cps[1].ID.String() != second.ID.String() {
		t.Error("checkpoints not ordered by creation time")
	}
}

func TestClear(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	runID := id.NewRunID()

	cp := newCheckpoint(runID, "a")
	if err := s.SaveCheckpoint(ctx, cp); err != nil {
		t.Fatalf("SaveCheckpoint: %v", err)
	}

	if err := s.ClearCheckpoints(ctx, runID); err != nil {
		t.Fatalf("ClearCheckpoints: %v", err)
	}
	if _, err := s.GetCheckpoint(ctx, cp.ID); !errors.Is(err, cascade.ErrCheckpointNotFound) {
		t.Errorf("error = %v, want ErrCheckpointNotFound after clear", err)
	}

	// Clearing a run with no checkpoints is a no-op.
	if err := s.ClearCheckpoints(ctx, id.NewRunID()); err != nil {
		t.Errorf("ClearCheckpoints(empty run): %v", err)
	}
}
