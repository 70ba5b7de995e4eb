// Package busindex maps between externally visible (grid-space) bus ids and
// the compact, ascending indices used inside the solver's sparse systems.
package busindex

import "powerflow/pfe"

// Sentinel value stored at grid_to_solver[i] when bus i is inactive.
const Inactive = -1

// Index is the compact bus-id mapping produced by Build.
type Index struct {
	GridToSolver []int // length n_grid; Inactive for deactivated buses
	SolverToGrid []int // length n_active, ascending
	SlackSolver  int   // solver-space id of the slack bus
}

// Build partitions active from inactive buses and assigns compact,
// ascending, stable solver-space ids to the active ones. It fails if
// slackGridID is out of range or the slack bus is inactive.
func Build(active []bool, slackGridID int) (Index, error) {
	n := len(active)
	if slackGridID < 0 || slackGridID >= n {
		return Index{}, pfe.NewTopologyError(pfe.ErrNoActiveSlack)
	}
	if !active[slackGridID] {
		return Index{}, pfe.NewTopologyError(pfe.ErrSlackInactive)
	}

	gridToSolver := make([]int, n)
	solverToGrid := make([]int, 0, n)
	next := 0
	for i, a := range active {
		if !a {
			gridToSolver[i] = Inactive
			continue
		}
		gridToSolver[i] = next
		solverToGrid = append(solverToGrid, i)
		next++
	}

	return Index{
		GridToSolver: gridToSolver,
		SolverToGrid: solverToGrid,
		SlackSolver:  gridToSolver[slackGridID],
	}, nil
}

// Len reports the number of active (solver-space) buses.
func (idx Index) Len() int { return len(idx.SolverToGrid) }
