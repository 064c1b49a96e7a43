// Package event defines the outbound notification model: lifecycle
// events published to a fire-and-forget Bus. The engine never retries or
// buffers a failed publish.
package event

import (
	"time"

	"github.com/cascadehq/cascade/id"
)

// Type identifies a lifecycle event.
type Type string

const (
	TypeWorkflowStarted   Type = "workflow.started"
	TypeWorkflowCompleted Type = "workflow.completed"
	TypeWorkflowFailed    Type = "workflow.failed"

	TypeStepStarted   Type = "step.started"
	TypeStepCompleted Type = "step.completed"
	TypeStepFailed    Type = "step.failed"

	TypeCheckpointCreated Type = "checkpoint.created"
	TypeRollbackStarted   Type = "rollback.started"
	TypeRollbackCompleted Type = "rollback.completed"
)

// Event is a lifecycle notification. Only the fields relevant to the
// event type are populated.
type Event struct {
	ID           id.EventID `json:"id"`
	Type         Type       `json:"type"`
	WorkflowType string     `json:"workflow_type,omitempty"`
	RunID        id.RunID   `json:"run_id,omitempty"`

	// Step events.
	StepID   string        `json:"step_id,omitempty"`
	StepName string        `json:"step_name,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Error    string        `json:"error,omitempty"`

	// Checkpoint events.
	CheckpointID id.CheckpointID `json:"checkpoint_id,omitempty"`

	// Rollback events.
	Reason string `json:"reason,omitempty"`
	Count  int    `json:"count,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// New creates an event of the given type with a fresh ID and timestamp.
func New(t Type) *Event {
	return &Event{
		ID:        id.NewEventID(),
		Type:      t,
		CreatedAt: time.Now().UTC(),
	}
}
