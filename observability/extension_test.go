package observability_test

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric/noop"

	"github.com/cascadehq/cascade/checkpoint"
	"github.com/cascadehq/cascade/id"
	"github.com/cascadehq/cascade/observability"
	"github.com/cascadehq/cascade/step"
)

func TestMetricsExtensionName(t *testing.T) {
	m := observability.NewMetricsExtension()
	if m.Name() != "observability-metrics" {
		t.Errorf("name = %q, want observability-metrics", m.Name())
	}
}

func TestMetricsExtensionHooksDoNotError(t *testing.T) {
	m := observability.NewMetricsExtensionWithMeter(noop.NewMeterProvider().Meter("test"))

	ctx := context.Background()
	runID := id.NewRunID()
	def := &step.Definition{ID: "fetch"}
	res := step.Result{StepID: "fetch", Status: step.StatusCompleted}
	cp := checkpoint.New(runID, nil, nil, nil, nil)

	if err := m.OnWorkflowStarted(ctx, runID, "etl"); err != nil {
		t.Errorf("OnWorkflowStarted: %v", err)
	}
	if err := m.OnStepCompleted(ctx, runID, "etl", def, res); err != nil {
		t.Errorf("OnStepCompleted: %v", err)
	}
	if err := m.OnStepFailed(ctx, runID, "etl", def, res); err != nil {
		t.Errorf("OnStepFailed: %v", err)
	}
	if err := m.OnWorkflowCompleted(ctx, runID, "etl", time.Second); err != nil {
		t.Errorf("OnWorkflowCompleted: %v", err)
	}
	if err := m.OnWorkflowFailed(ctx, runID, "etl", []string{"boom"}); err != nil {
		t.Errorf("OnWorkflowFailed: %v", err)
	}
	if err := m.OnCheckpointCreated(ctx, runID, "etl", cp); err != nil {
		t.Errorf("OnCheckpointCreated: %v", err)
	}
	if err := m.OnRollbackStarted(ctx, runID, "etl", "recovery", 2); err != nil {
		t.Errorf("OnRollbackStarted: %v", err)
	}
}
