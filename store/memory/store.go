// Package memory provides a fully in-memory checkpoint store. Safe for
// concurrent access. This is the default registry: snapshots live for
// the process lifetime until explicitly cleared.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cascadehq/cascade"
	"github.com/cascadehq/cascade/checkpoint"
	"github.com/cascadehq/cascade/id"
)

// Ensure Store implements checkpoint.Store at compile time.
var _ checkpoint.Store = (*Store)(nil)

// Store is a mutex-guarded in-memory checkpoint registry.
type Store struct {
	mu          sync.RWMutex
	checkpoints map[string]*checkpoint.Checkpoint // key: checkpoint ID
}

// New returns a new empty Store.
func New() *Store {
	return &Store{
		checkpoints: make(map[string]*checkpoint.Checkpoint),
	}
}

// SaveCheckpoint registers a clone of the checkpoint.
func (m *Store) SaveCheckpoint(_ context.Context, cp *checkpoint.Checkpoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.checkpoints[cp.ID.String()] = cp.Clone()
	return nil
}

// GetCheckpoint returns a clone of the checkpoint with the given ID.
func (m *Store) GetCheckpoint(_ context.Context, checkpointID id.CheckpointID) (*checkpoint.Checkpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cp, ok := m.checkpoints[checkpointID.String()]
	if !ok {
		return nil, cascade.ErrCheckpointNotFound
	}
	return cp.Clone(), nil
}

// ListCheckpoints returns clones of all checkpoints for a run, ordered
// by creation time.
func (m *Store) ListCheckpoints(_ context.Context, runID id.RunID) ([]*checkpoint.Checkpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*checkpoint.Checkpoint
	for _, cp := range m.checkpoints {
		if cp.RunID.String() == runID.String() {
			out = append(out, cp.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// ClearCheckpoints removes every checkpoint for a run.
func (m *Store) ClearCheckpoints(_ context.Context, runID id.RunID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, cp := range m.checkpoints {
		if cp.RunID.String() == runID.String() {
			delete(m.checkpoints, key)
		}
	}
	return nil
}
