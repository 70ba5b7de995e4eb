package network

import (
	"fmt"

	"powerflow/pfe"
)

// TransformerSet is the per-transformer table. Ratio is derived once at
// construction time from the pct-step, position, and hv-side flag:
// rho = 1 + 0.01*pct*pos*(2*hv-1).
type TransformerSet struct {
	R, X   []float64
	H      []complex128 // magnetizing shunt susceptance b, not yet halved or rotated
	Ratio  []float64    // rho, derived
	HV, LV []int        // grid-space bus ids
	Active []bool
}

// NewTransformerSet validates array-length agreement, positive ratios, and
// that endpoints reference existing buses.
func NewTransformerSet(r, x []float64, h []complex128, tapPct, tapPos []float64, tapHV []bool, hv, lv []int, buses *BusSet) (*TransformerSet, error) {
	n := len(r)
	if len(x) != n || len(h) != n || len(tapPct) != n || len(tapPos) != n || len(tapHV) != n || len(hv) != n || len(lv) != n {
		return nil, pfe.NewShapeError("transformers", fmt.Errorf("array lengths disagree"))
	}
	ratio := make([]float64, n)
	for i := 0; i < n; i++ {
		sign := -1.0
		if tapHV[i] {
			sign = 1.0
		}
		ratio[i] = 1.0 + 0.01*tapPct[i]*tapPos[i]*sign
		if ratio[i] <= 0 {
			return nil, pfe.NewShapeError("transformers", fmt.Errorf("transformer %d: derived ratio %g must be positive", i, ratio[i]))
		}
		if !buses.InRange(hv[i]) || !buses.InRange(lv[i]) {
			return nil, pfe.NewShapeError("transformers", fmt.Errorf("transformer %d: endpoint out of range", i))
		}
	}
	active := make([]bool, n)
	for i := range active {
		active[i] = true
	}
	return &TransformerSet{R: r, X: x, H: h, Ratio: ratio, HV: hv, LV: lv, Active: active}, nil
}

func (s *TransformerSet) Len() int { return len(s.R) }
