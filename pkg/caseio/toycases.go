package caseio

import "powerflow/pkg/engine"

// TwoBusLine builds a lossless two-bus line with a slack at bus 0 and a
// PQ load at bus 1.
func TwoBusLine() (*engine.Engine, error) {
	e := engine.New()
	if err := e.SetBus([]float64{110, 110}); err != nil {
		return nil, err
	}
	if err := e.SetLines([]float64{0}, []float64{0.1}, []complex128{0}, []int{0}, []int{1}); err != nil {
		return nil, err
	}
	if err := e.SetLoads([]float64{1.0}, []float64{0.5}, []int{1}); err != nil {
		return nil, err
	}
	if err := e.SetSlack(0); err != nil {
		return nil, err
	}
	if err := e.Rebuild(); err != nil {
		return nil, err
	}
	return e, nil
}

// ThreeBusRing builds a ring of three identical lines, a slack at bus 0,
// a PV generator at bus 1, and a PQ load at bus 2.
func ThreeBusRing() (*engine.Engine, error) {
	e := engine.New()
	if err := e.SetBus([]float64{110, 110, 110}); err != nil {
		return nil, err
	}
	r := []float64{0.01, 0.01, 0.01}
	x := []float64{0.1, 0.1, 0.1}
	h := []complex128{0, 0, 0}
	from := []int{0, 1, 2}
	to := []int{1, 2, 0}
	if err := e.SetLines(r, x, h, from, to); err != nil {
		return nil, err
	}
	if err := e.SetGens([]float64{1.0}, []float64{1.0}, []int{1}); err != nil {
		return nil, err
	}
	if err := e.SetLoads([]float64{0.8}, []float64{0.3}, []int{2}); err != nil {
		return nil, err
	}
	if err := e.SetSlack(0); err != nil {
		return nil, err
	}
	if err := e.Rebuild(); err != nil {
		return nil, err
	}
	return e, nil
}

// TransformerTap builds two buses joined by one transformer with a +5%
// hv-side tap.
func TransformerTap() (*engine.Engine, error) {
	e := engine.New()
	if err := e.SetBus([]float64{110, 20}); err != nil {
		return nil, err
	}
	if err := e.SetTrafos(
		[]float64{0}, []float64{0.05}, []complex128{0},
		[]float64{5}, []float64{1}, []bool{true},
		[]int{0}, []int{1},
	); err != nil {
		return nil, err
	}
	if err := e.SetLoads([]float64{0.5}, []float64{0}, []int{1}); err != nil {
		return nil, err
	}
	if err := e.SetSlack(0); err != nil {
		return nil, err
	}
	if err := e.Rebuild(); err != nil {
		return nil, err
	}
	return e, nil
}
