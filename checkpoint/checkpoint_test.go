package checkpoint_test

import (
	"testing"

	"github.com/cascadehq/cascade/checkpoint"
	"github.com/cascadehq/cascade/id"
	"github.com/cascadehq/cascade/step"
)

func sampleResults() map[string]step.Result {
	return map[string]step.Result{
		"fetch": {
			StepID: "fetch",
			Status: step.StatusCompleted,
			Output: map[string]any{"rows": 42},
			Seq:    1,
		},
		"parse": {
			StepID: "parse",
			Status: step.StatusFailed,
			Error:  "bad input",
		},
	}
}

func TestNewDeepCopies(t *testing.T) {
	results := sampleResults()
	state := map[string]any{"cursor": "abc"}
	order := []string{"fetch"}

	cp := checkpoint.New(id.NewRunID(), results, state, order, map[string]string{"wave": "1"})

	// Mutate the inputs after snapshotting.
	results["fetch"].Output["rows"] = 0
	state["cursor"] = "zzz"
	order[0] = "other"

	if cp.Results["fetch"].Output["rows"] != 42 {
		t.Error("result mutation leaked into checkpoint")
	}
	if cp.State["cursor"] != "abc" {
		t.Error("state mutation leaked into checkpoint")
	}
	if cp.CompletedOrder[0] != "fetch" {
		t.Error("order mutation leaked into checkpoint")
	}
	if cp.ID.Prefix() != id.PrefixCheckpoint {
		t.Errorf("id prefix = %q, want %q", cp.ID.Prefix(), id.PrefixCheckpoint)
	}
	if cp.Metadata["wave"] != "1" {
		t.Errorf("metadata wave = %q, want 1", cp.Metadata["wave"])
	}
}

func TestCompleted(t *testing.T) {
	cp := checkpoint.New(id.NewRunID(), sampleResults(), nil, []string{"fetch"}, nil)

	if !cp.Completed("fetch") {
		t.Error("fetch should be completed")
	}
	if cp.Completed("parse") {
		t.Error("parse failed, not completed")
	}
	if cp.Completed("ghost") {
		t.Error("unknown step should not be completed")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	orig := checkpoint.New(id.NewRunID(), sampleResults(), map[string]any{"k": "v"}, []string{"fetch"}, nil)

	cp := orig.Clone()
	cp.State["k"] = "mutated"
	cp.CompletedOrder[0] = "mutated"

	if orig.State["k"] != "v" {
		t.Error("clone state mutation leaked into original")
	}
	if orig.CompletedOrder[0] != "fetch" {
		t.Error("clone order mutation leaked into original")
	}
	if cp.ID.String() != orig.ID.String() {
		t.Error("clone should keep the same ID")
	}
}
