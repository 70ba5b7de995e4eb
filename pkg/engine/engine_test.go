package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func twoBusEngine(t *testing.T) *Engine {
	e := New()
	require.NoError(t, e.SetBus([]float64{110, 110}))
	require.NoError(t, e.SetLines([]float64{0}, []float64{0.1}, []complex128{0}, []int{0}, []int{1}))
	require.NoError(t, e.SetLoads([]float64{1.0}, []float64{0.5}, []int{1}))
	require.NoError(t, e.SetSlack(0))
	require.NoError(t, e.Rebuild())
	return e
}

func TestEngineNewtonTwoBusLine(t *testing.T) {
	e := twoBusEngine(t)
	ok, err := e.ComputeNewton([]complex128{1, 1}, 10, 1e-8)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, e.Converged())

	vm := e.GetVm()
	va := e.GetVa()
	require.InDelta(t, 0.9479, vm[1], 5e-4)
	require.InDelta(t, -0.1032, va[1], 5e-4)
}

func TestEngineDCTwoBus(t *testing.T) {
	e := twoBusEngine(t)
	V, err := e.ComputeDC([]float64{-1.0, 1.0}, 0)
	require.NoError(t, err)
	require.InDelta(t, 1.0, math.Hypot(real(V[1]), imag(V[1])), 1e-9)
	require.InDelta(t, -0.1, math.Atan2(imag(V[1]), real(V[1])), 1e-9)
}

func TestEngineDCIdempotent(t *testing.T) {
	e := twoBusEngine(t)
	V1, err := e.ComputeDC([]float64{-1.0, 1.0}, 0)
	require.NoError(t, err)
	V2, err := e.ComputeDC([]float64{-1.0, 1.0}, 0)
	require.NoError(t, err)
	require.Equal(t, V1, V2)
}

func TestEngineResultsEmptyBeforeSolve(t *testing.T) {
	e := twoBusEngine(t)
	require.Nil(t, e.GetVm())
	require.Nil(t, e.GetVa())
	require.Equal(t, 0, len(e.GetResults().Lines))
}

func TestEngineDisconnectionFailsAndClearsResults(t *testing.T) {
	e := twoBusEngine(t)
	ok, err := e.ComputeNewton([]complex128{1, 1}, 10, 1e-8)
	require.NoError(t, err)
	require.True(t, ok)
	priorVm := e.GetVm()

	require.NoError(t, e.SetGens([]float64{1.0}, []float64{1.0}, []int{1}))
	require.NoError(t, e.Rebuild())
	require.NoError(t, e.SetLines([]float64{0}, []float64{0.1}, []complex128{0}, []int{0}, []int{1}))
	e.lines.Active[0] = false
	require.NoError(t, e.Rebuild())

	ok, err = e.ComputeNewton([]complex128{1, 1}, 10, 1e-8)
	require.Error(t, err)
	require.False(t, ok)
	require.Nil(t, e.GetVm())
	_ = priorVm
}

func TestEngineInvalidMutationOnDisconnectedLoad(t *testing.T) {
	e := twoBusEngine(t)
	e.loads.Active[0] = false
	err := e.SetLoadP(0, 2.0)
	require.Error(t, err)
}

func TestEngineStatusRoundTrip(t *testing.T) {
	e := twoBusEngine(t)
	before := e.acRes.S[1]
	e.loads.Active[0] = false
	e.loads.Active[0] = true
	require.NoError(t, e.Rebuild())
	after := e.acRes.S[1]
	require.Equal(t, before, after)
}
