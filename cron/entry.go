package cron

import (
	"time"

	"github.com/cascadehq/cascade/id"
)

// Entry is a recurring workflow submission. Name is the registration
// key; WorkflowType is passed through to the submit callback so the
// receiver knows which step set to run.
type Entry struct {
	ID           id.CronID `json:"id"`
	Name         string    `json:"name"`
	Schedule     string    `json:"schedule"`
	WorkflowType string    `json:"workflow_type"`
	Enabled      bool      `json:"enabled"`

	CreatedAt time.Time  `json:"created_at"`
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	NextRunAt *time.Time `json:"next_run_at,omitempty"`
}

// clone returns a copy so callers cannot mutate scheduler state.
func (e *Entry) clone() *Entry {
	out := *e
	if e.LastRunAt != nil {
		t := *e.LastRunAt
		out.LastRunAt = &t
	}
	if e.NextRunAt != nil {
		t := *e.NextRunAt
		out.NextRunAt = &t
	}
	return &out
}
