package results

import (
	"testing"

	"github.com/stretchr/testify/require"

	"powerflow/pkg/admittance"
	"powerflow/pkg/busindex"
	"powerflow/pkg/matrix"
	"powerflow/pkg/network"
	"powerflow/pkg/solver"
)

func TestProjectLosslessBranchConservesPower(t *testing.T) {
	buses, err := network.NewBusSet([]float64{110, 110})
	require.NoError(t, err)
	lines, err := network.NewLineSet([]float64{0}, []float64{0.1}, []complex128{0}, []int{0}, []int{1}, buses)
	require.NoError(t, err)
	loads, err := network.NewLoadSet([]float64{1.0}, []float64{0.5}, []int{1}, buses)
	require.NoError(t, err)

	idx, err := busindex.Build(buses.Active, 0)
	require.NoError(t, err)
	in := admittance.Inputs{Buses: buses, Lines: lines, Loads: loads, SlackID: 0}
	res := admittance.Build(in, idx, true)

	nr, err := solver.SolveNewton(res.Y, res.S, res.PV, res.PQ, idx.SlackSolver, []complex128{1, 1}, 10, 1e-8)
	require.NoError(t, err)
	require.True(t, nr.Converged)

	out := Project(true, nr.V, res.Y, idx, in, 100)
	require.Len(t, out.Lines, 1)
	require.InDelta(t, 0, out.Lines[0].POE+out.Lines[0].PEO, 1e-6)
}

func TestProjectDisconnectedElementZero(t *testing.T) {
	buses, err := network.NewBusSet([]float64{110, 110})
	require.NoError(t, err)
	lines, err := network.NewLineSet([]float64{0}, []float64{0.1}, []complex128{0}, []int{0}, []int{1}, buses)
	require.NoError(t, err)
	lines.Active[0] = false
	loads, err := network.NewLoadSet([]float64{0}, []float64{0}, []int{1}, buses)
	require.NoError(t, err)

	idx, err := busindex.Build(buses.Active, 0)
	require.NoError(t, err)
	in := admittance.Inputs{Buses: buses, Lines: lines, Loads: loads, SlackID: 0}

	V := []complex128{1, 0}
	var y *matrix.ComplexMatrix
	out := Project(true, V, y, idx, in, 100)
	require.Equal(t, BranchFlow{}, out.Lines[0])
}
