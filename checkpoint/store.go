package checkpoint

import (
	"context"

	"github.com/cascadehq/cascade/id"
)

// Store defines the persistence contract for checkpoints. The registry
// retains every checkpoint saved during its lifetime until explicitly
// cleared; implementations must be safe for concurrent use.
type Store interface {
	// SaveCheckpoint registers a new checkpoint. The store takes its own
	// copy; the caller's checkpoint is not retained.
	SaveCheckpoint(ctx context.Context, cp *Checkpoint) error

	// GetCheckpoint retrieves a checkpoint by ID. Returns
	// cascade.ErrCheckpointNotFound for unknown IDs.
	GetCheckpoint(ctx context.Context, checkpointID id.CheckpointID) (*Checkpoint, error)

	// ListCheckpoints returns all checkpoints for a run, ordered by
	// creation time.
	ListCheckpoints(ctx context.Context, runID id.RunID) ([]*Checkpoint, error)

	// ClearCheckpoints removes every checkpoint for a run. A run with no
	// checkpoints clears to a no-op.
	ClearCheckpoints(ctx context.Context, runID id.RunID) error
}
