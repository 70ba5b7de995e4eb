package network

import (
	"fmt"

	"powerflow/pfe"
)

// LineSet is the per-line table: series r/x, shunt susceptance b (kept as
// a complex value even though only the real part is physically meaningful,
// to match the constructor signature callers use for trafos too), and the
// from/to bus endpoints. admittance.Build derives the stamped half-shunt
// h = j*(b/2) from this field; it is not pre-halved here.
type LineSet struct {
	R, X   []float64
	H      []complex128 // shunt susceptance b, not yet halved or rotated
	From   []int        // grid-space bus ids
	To     []int
	Active []bool
}

// NewLineSet validates array-length agreement and that endpoints reference
// existing, distinct buses.
func NewLineSet(r, x []float64, h []complex128, from, to []int, buses *BusSet) (*LineSet, error) {
	n := len(r)
	if len(x) != n || len(h) != n || len(from) != n || len(to) != n {
		return nil, pfe.NewShapeError("lines", fmt.Errorf("array lengths disagree: r=%d x=%d h=%d from=%d to=%d",
			len(r), len(x), len(h), len(from), len(to)))
	}
	for i := 0; i < n; i++ {
		if from[i] == to[i] {
			return nil, pfe.NewShapeError("lines", fmt.Errorf("line %d: from-bus equals to-bus (%d)", i, from[i]))
		}
		if !buses.InRange(from[i]) || !buses.InRange(to[i]) {
			return nil, pfe.NewShapeError("lines", fmt.Errorf("line %d: endpoint out of range", i))
		}
	}
	active := make([]bool, n)
	for i := range active {
		active[i] = true
	}
	return &LineSet{R: r, X: x, H: h, From: from, To: to, Active: active}, nil
}

func (s *LineSet) Len() int { return len(s.R) }
