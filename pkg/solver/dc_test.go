package solver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"powerflow/pkg/admittance"
	"powerflow/pkg/busindex"
	"powerflow/pkg/network"
)

// TestSolveDCTwoBus checks theta[1] = -0.1 rad
// exactly, |V[1]| = 1.0.
func TestSolveDCTwoBus(t *testing.T) {
	buses, err := network.NewBusSet([]float64{110, 110})
	require.NoError(t, err)
	lines, err := network.NewLineSet([]float64{0}, []float64{0.1}, []complex128{0}, []int{0}, []int{1}, buses)
	require.NoError(t, err)

	idx, err := busindex.Build(buses.Active, 0)
	require.NoError(t, err)
	res := admittance.Build(admittance.Inputs{Buses: buses, Lines: lines, SlackID: 0}, idx, false)

	P := []float64{-1.0, 1.0}
	v0 := []complex128{1, 1}
	V, err := SolveDC(res.B, P, v0, idx, nil)
	require.NoError(t, err)

	require.InDelta(t, -0.1, cmplxPhase(V[1]), 1e-9)
	require.InDelta(t, 1.0, cmplxAbs(V[1]), 1e-9)
}

func TestSolveDCIdempotent(t *testing.T) {
	buses, _ := network.NewBusSet([]float64{110, 110})
	lines, err := network.NewLineSet([]float64{0}, []float64{0.1}, []complex128{0}, []int{0}, []int{1}, buses)
	require.NoError(t, err)
	idx, _ := busindex.Build(buses.Active, 0)
	res := admittance.Build(admittance.Inputs{Buses: buses, Lines: lines, SlackID: 0}, idx, false)

	P := []float64{-1.0, 1.0}
	v0 := []complex128{1, 1}
	V1, err := SolveDC(res.B, P, v0, idx, nil)
	require.NoError(t, err)
	V2, err := SolveDC(res.B, P, v0, idx, nil)
	require.NoError(t, err)
	require.Equal(t, V1, V2)
}

func TestSolveDCAppliesGenVoltageSetpoint(t *testing.T) {
	buses, _ := network.NewBusSet([]float64{110, 110, 110})
	lines, err := network.NewLineSet(
		[]float64{0.01, 0.1}, []float64{0.1, 0.1}, []complex128{0, 0},
		[]int{0, 1}, []int{1, 2}, buses,
	)
	require.NoError(t, err)
	gens, err := network.NewGeneratorSet([]float64{1.0}, []float64{1.02}, []int{1}, buses)
	require.NoError(t, err)
	idx, err := busindex.Build(buses.Active, 0)
	require.NoError(t, err)
	res := admittance.Build(admittance.Inputs{Buses: buses, Lines: lines, Gens: gens, SlackID: 0}, idx, false)

	P := []float64{0, 1.0, -1.0}
	v0 := []complex128{1, 1, 1}
	V, err := SolveDC(res.B, P, v0, idx, gens)
	require.NoError(t, err)
	require.InDelta(t, 1.02, cmplxAbs(V[1]), 1e-12)
}
