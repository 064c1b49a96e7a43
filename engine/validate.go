package engine

import (
	"fmt"

	"github.com/cascadehq/cascade"
	"github.com/cascadehq/cascade/step"
)

// Validate checks a step set before execution: it must be non-empty,
// every ID unique, every action non-nil, every dependency reference
// resolvable within the set, and the dependency graph acyclic. A cyclic
// set is rejected here instead of silently producing an all-skipped run.
func Validate(steps []step.Definition) error {
	if len(steps) == 0 {
		return cascade.ErrNoSteps
	}

	byID := make(map[string]*step.Definition, len(steps))
	for i := range steps {
		def := &steps[i]
		if _, dup := byID[def.ID]; dup {
			return fmt.Errorf("%w: %q", cascade.ErrDuplicateStep, def.ID)
		}
		if def.Action == nil {
			return fmt.Errorf("%w: %q", cascade.ErrNilAction, def.ID)
		}
		byID[def.ID] = def
	}

	for i := range steps {
		for _, dep := range steps[i].DependsOn {
			if _, ok := byID[dep]; !ok {
				return fmt.Errorf("%w: step %q depends on %q", cascade.ErrUnknownDependency, steps[i].ID, dep)
			}
		}
	}

	return checkAcyclic(steps)
}

// checkAcyclic runs Kahn's algorithm: if topological elimination cannot
// consume every step, the remainder forms at least one cycle.
func checkAcyclic(steps []step.Definition) error {
	indegree := make(map[string]int, len(steps))
	dependents := make(map[string][]string, len(steps))
	for i := range steps {
		indegree[steps[i].ID] = len(steps[i].DependsOn)
		for _, dep := range steps[i].DependsOn {
			dependents[dep] = append(dependents[dep], steps[i].ID)
		}
	}

	queue := make([]string, 0, len(steps))
	for stepID, deg := range indegree {
		if deg == 0 {
			queue = append(queue, stepID)
		}
	}

	resolved := 0
	for len(queue) > 0 {
		stepID := queue[0]
		queue = queue[1:]
		resolved++
		for _, next := range dependents[stepID] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if resolved != len(steps) {
		remaining := make([]string, 0, len(steps)-resolved)
		for stepID, deg := range indegree {
			if deg > 0 {
				remaining = append(remaining, stepID)
			}
		}
		return fmt.Errorf("%w: involving %v", cascade.ErrCyclicDependency, remaining)
	}
	return nil
}
