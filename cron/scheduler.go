package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	cronlib "github.com/robfig/cron/v3"

	"github.com/cascadehq/cascade"
	"github.com/cascadehq/cascade/id"
)

// SubmitFunc is the callback the scheduler invokes for each due entry.
// This breaks the import cycle: the caller wires it to engine execution.
type SubmitFunc func(ctx context.Context, entry *Entry) error

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithTickInterval sets how often the scheduler checks for due entries.
func WithTickInterval(d time.Duration) SchedulerOption {
	return func(s *Scheduler) { s.tickInterval = d }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// cronParser supports standard 5-field cron and descriptors like "@every 30s".
var cronParser = cronlib.NewParser(
	cronlib.Minute | cronlib.Hour | cronlib.Dom | cronlib.Month | cronlib.Dow | cronlib.Descriptor,
)

// ParseSchedule parses a cron expression and returns the schedule.
func ParseSchedule(expr string) (cronlib.Schedule, error) {
	return cronParser.Parse(expr)
}

// Scheduler fires registered entries on a tick loop. Entries are kept
// in memory; Add validates the expression before accepting.
type Scheduler struct {
	submit SubmitFunc
	logger *slog.Logger

	tickInterval time.Duration

	mu      sync.RWMutex
	entries map[string]*Entry
	parsed  map[string]cronlib.Schedule

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewScheduler creates a Scheduler with a 1 second tick interval.
func NewScheduler(submit SubmitFunc, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		submit:       submit,
		logger:       slog.Default(),
		tickInterval: 1 * time.Second,
		entries:      make(map[string]*Entry),
		parsed:       make(map[string]cronlib.Schedule),
		stopCh:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add registers a recurring submission under name. The expression is
// validated here; a bad expression never enters the entry set.
func (s *Scheduler) Add(name, expr, workflowType string) (*Entry, error) {
	sched, err := ParseSchedule(expr)
	if err != nil {
		return nil, fmt.Errorf("cron: parse schedule %q: %w", expr, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[name]; exists {
		return nil, fmt.Errorf("%w: %q", cascade.ErrDuplicateCron, name)
	}

	now := time.Now().UTC()
	next := sched.Next(now)
	entry := &Entry{
		ID:           id.NewCronID(),
		Name:         name,
		Schedule:     expr,
		WorkflowType: workflowType,
		Enabled:      true,
		CreatedAt:    now,
		NextRunAt:    &next,
	}
	s.entries[name] = entry
	s.parsed[name] = sched

	s.logger.Info("cron entry added",
		slog.String("cron_name", name),
		slog.String("schedule", expr),
		slog.Time("next_run_at", next),
	)
	return entry.clone(), nil
}

// Remove unregisters an entry.
func (s *Scheduler) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[name]; !ok {
		return fmt.Errorf("%w: %q", cascade.ErrCronNotFound, name)
	}
	delete(s.entries, name)
	delete(s.parsed, name)
	return nil
}

// Get returns a copy of the named entry.
func (s *Scheduler) Get(name string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", cascade.ErrCronNotFound, name)
	}
	return entry.clone(), nil
}

// Entries returns copies of all registered entries.
func (s *Scheduler) Entries() []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, entry.clone())
	}
	return out
}

// SetEnabled toggles an entry without removing it. Re-enabling resets
// the next fire time from now so a long-disabled entry does not fire
// immediately for every missed occurrence.
func (s *Scheduler) SetEnabled(name string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[name]
	if !ok {
		return fmt.Errorf("%w: %q", cascade.ErrCronNotFound, name)
	}
	entry.Enabled = enabled
	if enabled {
		next := s.parsed[name].Next(time.Now().UTC())
		entry.NextRunAt = &next
	}
	return nil
}

// Start launches the tick loop.
func (s *Scheduler) Start(_ context.Context) error {
	s.wg.Add(1)
	go s.tickLoop()
	s.logger.Info("cron scheduler started",
		slog.Duration("tick_interval", s.tickInterval),
	)
	return nil
}

// Stop signals the scheduler to stop and waits for the loop to finish.
func (s *Scheduler) Stop(_ context.Context) error {
	close(s.stopCh)
	s.wg.Wait()
	s.logger.Info("cron scheduler stopped")
	return nil
}

// tickLoop fires on each tick interval and processes due entries.
func (s *Scheduler) tickLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.tick(time.Now().UTC())
		}
	}
}

// tick fires every enabled entry whose next run time has passed.
// Exported indirectly through the loop; taken as a parameter so tests
// can drive virtual time.
func (s *Scheduler) tick(now time.Time) {
	for _, entry := range s.due(now) {
		s.fireEntry(context.Background(), entry, now)
	}
}

// due returns clones of entries that should fire at now, and advances
// their book-keeping under the lock.
func (s *Scheduler) due(now time.Time) []*Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*Entry
	for name, entry := range s.entries {
		if !entry.Enabled {
			continue
		}
		if entry.NextRunAt == nil || entry.NextRunAt.After(now) {
			continue
		}

		last := now
		entry.LastRunAt = &last
		next := s.parsed[name].Next(now)
		entry.NextRunAt = &next

		out = append(out, entry.clone())
	}
	return out
}

func (s *Scheduler) fireEntry(ctx context.Context, entry *Entry, now time.Time) {
	if err := s.submit(ctx, entry); err != nil {
		s.logger.Error("cron submit error",
			slog.String("cron_name", entry.Name),
			slog.String("workflow_type", entry.WorkflowType),
			slog.String("error", err.Error()),
		)
		return
	}

	s.logger.Info("cron fired",
		slog.String("cron_name", entry.Name),
		slog.String("workflow_type", entry.WorkflowType),
		slog.Time("fired_at", now),
	)
}
