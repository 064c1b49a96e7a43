// Package redis provides a Redis-backed checkpoint store. Snapshots are
// stored as JSON values with a per-run index set, letting multiple
// processes share a checkpoint registry. Durability guarantees are
// whatever the Redis deployment provides; crash-safe persistence is out
// of scope.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cascadehq/cascade"
	"github.com/cascadehq/cascade/checkpoint"
	"github.com/cascadehq/cascade/id"
)

// Ensure Store implements checkpoint.Store at compile time.
var _ checkpoint.Store = (*Store)(nil)

// Store persists checkpoints in Redis.
type Store struct {
	client goredis.UniversalClient
}

// New creates a Store on an existing Redis client.
func New(client goredis.UniversalClient) *Store {
	return &Store{client: client}
}

// Open connects to Redis at addr and returns a Store. Ping failures are
// returned immediately so misconfiguration surfaces at startup.
func Open(ctx context.Context, addr string) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cascade/redis: ping %s: %w", addr, err)
	}
	return &Store{client: client}, nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// SaveCheckpoint stores the checkpoint JSON and indexes it under its run.
func (s *Store) SaveCheckpoint(ctx context.Context, cp *checkpoint.Checkpoint) error {
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("cascade/redis: marshal checkpoint %s: %w", cp.ID, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, checkpointKey(cp.ID.String()), data, 0)
	pipe.SAdd(ctx, runIndexKey(cp.RunID.String()), cp.ID.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cascade/redis: save checkpoint %s: %w", cp.ID, err)
	}
	return nil
}

// GetCheckpoint loads a checkpoint by ID.
func (s *Store) GetCheckpoint(ctx context.Context, checkpointID id.CheckpointID) (*checkpoint.Checkpoint, error) {
	data, err := s.client.Get(ctx, checkpointKey(checkpointID.String())).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, cascade.ErrCheckpointNotFound
		}
		return nil, fmt.Errorf("cascade/redis: get checkpoint %s: %w", checkpointID, err)
	}

	var cp checkpoint.Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("cascade/redis: decode checkpoint %s: %w", checkpointID, err)
	}
	return &cp, nil
}

// ListCheckpoints returns all checkpoints for a run, ordered by creation
// time.
func (s *Store) ListCheckpoints(ctx context.Context, runID id.RunID) ([]*checkpoint.Checkpoint, error) {
	ids, err := s.client.SMembers(ctx, runIndexKey(runID.String())).Result()
	if err != nil {
		return nil, fmt.Errorf("cascade/redis: list checkpoints for %s: %w", runID, err)
	}

	out := make([]*checkpoint.Checkpoint, 0, len(ids))
	for _, cpID := range ids {
		data, getErr := s.client.Get(ctx, checkpointKey(cpID)).Bytes()
		if getErr != nil {
			// Index entry without a value: skip, the checkpoint was cleared.
			continue
		}
		var cp checkpoint.Checkpoint
		if decErr := json.Unmarshal(data, &cp); decErr != nil {
			return nil, fmt.Errorf("cascade/redis: decode checkpoint %s: %w", cpID, decErr)
		}
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// ClearCheckpoints removes every checkpoint for a run and its index.
func (s *Store) ClearCheckpoints(ctx context.Context, runID id.RunID) error {
	indexKey := runIndexKey(runID.String())
	ids, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return fmt.Errorf("cascade/redis: clear checkpoints for %s: %w", runID, err)
	}

	pipe := s.client.TxPipeline()
	for _, cpID := range ids {
		pipe.Del(ctx, checkpointKey(cpID))
	}
	pipe.Del(ctx, indexKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cascade/redis: clear checkpoints for %s: %w", runID, err)
	}
	return nil
}
