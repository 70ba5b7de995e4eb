package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"powerflow/pkg/admittance"
	"powerflow/pkg/busindex"
	"powerflow/pkg/network"
)

// TestSolveNewtonTwoBusLine checks a lossless
// two-bus line converges to |V[1]| ~= 0.9479, angle ~= -0.1032 rad.
func TestSolveNewtonTwoBusLine(t *testing.T) {
	buses, err := network.NewBusSet([]float64{110, 110})
	require.NoError(t, err)
	lines, err := network.NewLineSet([]float64{0}, []float64{0.1}, []complex128{0}, []int{0}, []int{1}, buses)
	require.NoError(t, err)
	loads, err := network.NewLoadSet([]float64{1.0}, []float64{0.5}, []int{1}, buses)
	require.NoError(t, err)

	idx, err := busindex.Build(buses.Active, 0)
	require.NoError(t, err)

	res := admittance.Build(admittance.Inputs{Buses: buses, Lines: lines, Loads: loads, SlackID: 0}, idx, true)

	v0 := []complex128{1, 1}
	nr, err := SolveNewton(res.Y, res.S, res.PV, res.PQ, idx.SlackSolver, v0, 10, 1e-8)
	require.NoError(t, err)
	require.True(t, nr.Converged)
	require.LessOrEqual(t, nr.Iterations, 4)

	require.InDelta(t, 0.9479, cmplxAbs(nr.V[1]), 5e-4)
	require.InDelta(t, -0.1032, cmplxPhase(nr.V[1]), 5e-4)
}

func TestSolveNewtonDisconnectedPVFails(t *testing.T) {
	buses, err := network.NewBusSet([]float64{110, 110})
	require.NoError(t, err)
	lines, err := network.NewLineSet([]float64{0}, []float64{0.1}, []complex128{0}, []int{0}, []int{1}, buses)
	require.NoError(t, err)
	lines.Active[0] = false
	gens, err := network.NewGeneratorSet([]float64{1.0}, []float64{1.0}, []int{1}, buses)
	require.NoError(t, err)

	idx, err := busindex.Build(buses.Active, 0)
	require.NoError(t, err)
	res := admittance.Build(admittance.Inputs{Buses: buses, Lines: lines, Gens: gens, SlackID: 0}, idx, true)

	v0 := []complex128{1, 1}
	_, err = SolveNewton(res.Y, res.S, res.PV, res.PQ, idx.SlackSolver, v0, 10, 1e-8)
	require.Error(t, err)
}

func TestCmplxHelpers(t *testing.T) {
	require.InDelta(t, math.Sqrt(2), cmplxAbs(1+1i), 1e-12)
	require.InDelta(t, math.Pi/4, cmplxPhase(1+1i), 1e-12)
}
