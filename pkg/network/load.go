package network

import (
	"fmt"

	"powerflow/pfe"
)

// LoadSet is the per-load table: constant-power MW/MVAr consumption at a
// bus.
type LoadSet struct {
	P, Q   []float64
	Bus    []int
	Active []bool
}

func NewLoadSet(p, q []float64, bus []int, buses *BusSet) (*LoadSet, error) {
	n := len(p)
	if len(q) != n || len(bus) != n {
		return nil, pfe.NewShapeError("loads", fmt.Errorf("array lengths disagree"))
	}
	for i, b := range bus {
		if !buses.InRange(b) {
			return nil, pfe.NewShapeError("loads", fmt.Errorf("load %d: bus %d out of range", i, b))
		}
	}
	active := make([]bool, n)
	for i := range active {
		active[i] = true
	}
	return &LoadSet{P: p, Q: q, Bus: bus, Active: active}, nil
}

func (s *LoadSet) Len() int { return len(s.P) }

// SetP changes the active-power value of a connected load.
func (s *LoadSet) SetP(id int, p float64) error {
	if id < 0 || id >= len(s.P) {
		return pfe.NewShapeError("loads", pfe.ErrIndexOutOfRange)
	}
	if !s.Active[id] {
		return &pfe.InvalidMutationError{ElementKind: "load", ID: id}
	}
	s.P[id] = p
	return nil
}

// SetQ changes the reactive-power value of a connected load.
func (s *LoadSet) SetQ(id int, q float64) error {
	if id < 0 || id >= len(s.Q) {
		return pfe.NewShapeError("loads", pfe.ErrIndexOutOfRange)
	}
	if !s.Active[id] {
		return &pfe.InvalidMutationError{ElementKind: "load", ID: id}
	}
	s.Q[id] = q
	return nil
}
