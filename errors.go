package cascade

import "errors"

var (
	// Submission errors.
	ErrNoSteps           = errors.New("cascade: no steps submitted")
	ErrDuplicateStep     = errors.New("cascade: duplicate step id")
	ErrUnknownDependency = errors.New("cascade: dependency references unknown step")
	ErrCyclicDependency  = errors.New("cascade: dependency cycle detected")
	ErrNilAction         = errors.New("cascade: step has no action")

	// Store errors.
	ErrCheckpointNotFound = errors.New("cascade: checkpoint not found")

	// Lifecycle errors.
	ErrExecutorStopped = errors.New("cascade: executor stopped")
	ErrCronNotFound    = errors.New("cascade: cron entry not found")
	ErrDuplicateCron   = errors.New("cascade: duplicate cron entry")
)
