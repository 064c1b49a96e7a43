package engine

import "github.com/cascadehq/cascade/step"

// readySteps computes one wave: every step that is not yet completed,
// has no terminal result, and whose dependencies are all completed with
// none failed. Failure propagates to dependents without explicit graph
// traversal — a step whose dependency failed simply never becomes ready
// and is skipped when the loop drains.
func readySteps(steps []step.Definition, completed map[string]struct{}, results map[string]step.Result) []*step.Definition {
	var ready []*step.Definition

	for i := range steps {
		def := &steps[i]
		if _, done := completed[def.ID]; done {
			continue
		}
		if res, ok := results[def.ID]; ok && res.Status.Terminal() {
			continue
		}

		eligible := true
		for _, dep := range def.DependsOn {
			if _, done := completed[dep]; !done {
				eligible = false
				break
			}
			if res, ok := results[dep]; ok && res.Status == step.StatusFailed {
				eligible = false
				break
			}
		}
		if eligible {
			ready = append(ready, def)
		}
	}

	return ready
}

// partition splits a wave into its parallel-eligible and sequential
// subsets, both preserving submission order.
func partition(wave []*step.Definition) (parallel, sequential []*step.Definition) {
	for _, def := range wave {
		if def.Parallel {
			parallel = append(parallel, def)
		} else {
			sequential = append(sequential, def)
		}
	}
	return parallel, sequential
}
