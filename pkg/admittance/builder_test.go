package admittance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"powerflow/pkg/busindex"
	"powerflow/pkg/network"
)

func twoBusLine(t *testing.T) (Inputs, busindex.Index) {
	buses, err := network.NewBusSet([]float64{110, 110})
	require.NoError(t, err)
	lines, err := network.NewLineSet([]float64{0}, []float64{0.1}, []complex128{0}, []int{0}, []int{1}, buses)
	require.NoError(t, err)
	loads, err := network.NewLoadSet([]float64{1.0}, []float64{0.5}, []int{1}, buses)
	require.NoError(t, err)
	idx, err := busindex.Build(buses.Active, 0)
	require.NoError(t, err)
	return Inputs{Buses: buses, Lines: lines, Loads: loads, SlackID: 0}, idx
}

func TestBuildLineSymmetric(t *testing.T) {
	in, idx := twoBusLine(t)
	res := Build(in, idx, true)
	require.Equal(t, res.Y.At(0, 1), res.Y.At(1, 0))
	require.NotEqual(t, complex128(0), res.Y.At(0, 1))
}

func TestBuildSlackCompensation(t *testing.T) {
	in, idx := twoBusLine(t)
	res := Build(in, idx, true)
	var sum complex128
	for _, s := range res.S {
		sum += s
	}
	require.InDelta(t, 0, real(sum), 1e-12)
}

func TestBuildRolesNoGenerator(t *testing.T) {
	in, idx := twoBusLine(t)
	res := Build(in, idx, true)
	require.Empty(t, res.PV)
	require.Equal(t, []int{1}, res.PQ)
}

func TestBuildZeroImpedanceSkipped(t *testing.T) {
	buses, _ := network.NewBusSet([]float64{110, 110})
	lines, err := network.NewLineSet([]float64{0}, []float64{0}, []complex128{0}, []int{0}, []int{1}, buses)
	require.NoError(t, err)
	idx, _ := busindex.Build(buses.Active, 0)
	res := Build(Inputs{Buses: buses, Lines: lines, SlackID: 0}, idx, true)
	require.Equal(t, complex128(0), res.Y.At(0, 1))
}

func TestBuildTransformerAsymmetricDiagonal(t *testing.T) {
	buses, _ := network.NewBusSet([]float64{110, 20})
	trafos, err := network.NewTransformerSet(
		[]float64{0}, []float64{0.05}, []complex128{0},
		[]float64{5}, []float64{1}, []bool{true},
		[]int{0}, []int{1}, buses,
	)
	require.NoError(t, err)
	idx, _ := busindex.Build(buses.Active, 0)
	res := Build(Inputs{Buses: buses, Trafos: trafos, SlackID: 0}, idx, true)

	require.Equal(t, res.Y.At(0, 1), res.Y.At(1, 0))

	rho := trafos.Ratio[0]
	hv, lv := res.Y.At(0, 0), res.Y.At(1, 1)
	require.InDelta(t, real(lv), rho*rho*real(hv), 1e-9)
}

func TestBuildDCDropsLineShuntAndResistance(t *testing.T) {
	buses, _ := network.NewBusSet([]float64{110, 110})
	lines, err := network.NewLineSet([]float64{0.01}, []float64{0.1}, []complex128{0 + 0.02i}, []int{0}, []int{1}, buses)
	require.NoError(t, err)
	idx, _ := busindex.Build(buses.Active, 0)
	res := Build(Inputs{Buses: buses, Lines: lines, SlackID: 0}, idx, false)
	require.InDelta(t, 0, real(res.B.At(0, 0))-(-real(res.B.At(0, 1))), 1e-9)
}
