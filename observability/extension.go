package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/cascadehq/cascade/checkpoint"
	"github.com/cascadehq/cascade/ext"
	"github.com/cascadehq/cascade/id"
	"github.com/cascadehq/cascade/step"
)

// Compile-time interface checks.
var (
	_ ext.Extension         = (*MetricsExtension)(nil)
	_ ext.StepCompleted     = (*MetricsExtension)(nil)
	_ ext.StepFailed        = (*MetricsExtension)(nil)
	_ ext.WorkflowStarted   = (*MetricsExtension)(nil)
	_ ext.WorkflowCompleted = (*MetricsExtension)(nil)
	_ ext.WorkflowFailed    = (*MetricsExtension)(nil)
	_ ext.CheckpointCreated = (*MetricsExtension)(nil)
	_ ext.RollbackStarted   = (*MetricsExtension)(nil)
)

// MetricsExtension records system-wide lifecycle counters. Register it
// as an engine extension to automatically track workflow executions,
// step outcomes, checkpoint creation, and rollback passes. Workflow
// counters carry a workflow_type attribute so runs of different shapes
// can be told apart on a dashboard.
type MetricsExtension struct {
	stepCompleted     metric.Int64Counter
	stepFailed        metric.Int64Counter
	workflowStarted   metric.Int64Counter
	workflowCompleted metric.Int64Counter
	workflowFailed    metric.Int64Counter
	workflowDuration  metric.Float64Histogram
	checkpointCreated metric.Int64Counter
	rollbackStarted   metric.Int64Counter
}

// NewMetricsExtension creates a MetricsExtension using the global meter
// provider.
func NewMetricsExtension() *MetricsExtension {
	return NewMetricsExtensionWithMeter(otel.Meter("cascade/observability"))
}

// NewMetricsExtensionWithMeter creates a MetricsExtension with the
// provided meter. Use a manual-reader meter in tests.
func NewMetricsExtensionWithMeter(meter metric.Meter) *MetricsExtension {
	m := &MetricsExtension{}
	m.stepCompleted, _ = meter.Int64Counter("cascade.step.completed",
		metric.WithDescription("Steps that reached completed status"))
	m.stepFailed, _ = meter.Int64Counter("cascade.step.failed",
		metric.WithDescription("Steps that exhausted their retry budget"))
	m.workflowStarted, _ = meter.Int64Counter("cascade.workflow.started",
		metric.WithDescription("Workflow runs started"))
	m.workflowCompleted, _ = meter.Int64Counter("cascade.workflow.completed",
		metric.WithDescription("Workflow runs that completed successfully"))
	m.workflowFailed, _ = meter.Int64Counter("cascade.workflow.failed",
		metric.WithDescription("Workflow runs with at least one failed step"))
	m.workflowDuration, _ = meter.Float64Histogram("cascade.workflow.duration",
		metric.WithDescription("Workflow run duration"),
		metric.WithUnit("s"))
	m.checkpointCreated, _ = meter.Int64Counter("cascade.checkpoint.created",
		metric.WithDescription("Checkpoints taken"))
	m.rollbackStarted, _ = meter.Int64Counter("cascade.rollback.started",
		metric.WithDescription("Rollback passes started"))
	return m
}

// Name implements ext.Extension.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

func workflowAttrs(workflowType string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("workflow_type", workflowType))
}

// OnStepCompleted implements ext.StepCompleted.
func (m *MetricsExtension) OnStepCompleted(ctx context.Context, _ id.RunID, workflowType string, _ *step.Definition, _ step.Result) error {
	m.stepCompleted.Add(ctx, 1, workflowAttrs(workflowType))
	return nil
}

// OnStepFailed implements ext.StepFailed.
func (m *MetricsExtension) OnStepFailed(ctx context.Context, _ id.RunID, workflowType string, _ *step.Definition, _ step.Result) error {
	m.stepFailed.Add(ctx, 1, workflowAttrs(workflowType))
	return nil
}

// OnWorkflowStarted implements ext.WorkflowStarted.
func (m *MetricsExtension) OnWorkflowStarted(ctx context.Context, _ id.RunID, workflowType string) error {
	m.workflowStarted.Add(ctx, 1, workflowAttrs(workflowType))
	return nil
}

// OnWorkflowCompleted implements ext.WorkflowCompleted.
func (m *MetricsExtension) OnWorkflowCompleted(ctx context.Context, _ id.RunID, workflowType string, elapsed time.Duration) error {
	m.workflowCompleted.Add(ctx, 1, workflowAttrs(workflowType))
	m.workflowDuration.Record(ctx, elapsed.Seconds(), workflowAttrs(workflowType))
	return nil
}

// OnWorkflowFailed implements ext.WorkflowFailed.
func (m *MetricsExtension) OnWorkflowFailed(ctx context.Context, _ id.RunID, workflowType string, _ []string) error {
	m.workflowFailed.Add(ctx, 1, workflowAttrs(workflowType))
	return nil
}

// OnCheckpointCreated implements ext.CheckpointCreated.
func (m *MetricsExtension) OnCheckpointCreated(ctx context.Context, _ id.RunID, workflowType string, _ *checkpoint.Checkpoint) error {
	m.checkpointCreated.Add(ctx, 1, workflowAttrs(workflowType))
	return nil
}

// OnRollbackStarted implements ext.RollbackStarted.
func (m *MetricsExtension) OnRollbackStarted(ctx context.Context, _ id.RunID, workflowType string, _ string, _ int) error {
	m.rollbackStarted.Add(ctx, 1, workflowAttrs(workflowType))
	return nil
}
