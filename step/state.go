package step

import "sync"

// State is the workflow-scoped shared state passed to every step action
// in a run. Access is guarded by a mutex so parallel steps within a wave
// can read and write it without racing.
//
// Values are deep-copied on Snapshot for maps and slices of `any`;
// pointer values stored by callers are shared between the live state and
// snapshots. Keep stored values plain (strings, numbers, maps, slices)
// when checkpoint/resume fidelity matters.
type State struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewState creates a State seeded with the given initial values.
// A nil initial map yields an empty state.
func NewState(initial map[string]any) *State {
	s := &State{values: make(map[string]any)}
	for k, v := range initial {
		s.values[k] = v
	}
	return s
}

// Get returns the value stored under key and whether it was present.
func (s *State) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores a value under key, replacing any existing value.
func (s *State) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Delete removes key from the state.
func (s *State) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// Len returns the number of stored keys.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Snapshot returns an independent deep copy of the state contents.
// Checkpoints store these copies; later mutations of the live state do
// not leak into them.
func (s *State) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMap(s.values)
}

// Restore replaces the state contents with a deep copy of the given map.
// Used when resuming a run from a checkpoint.
func (s *State) Restore(values map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = cloneMap(values)
}
