package network

import (
	"fmt"

	"powerflow/pfe"
)

// ShuntSet is the per-shunt table: fixed MW/MVAr injection (stamped as a
// negative admittance) at a bus.
type ShuntSet struct {
	P, Q   []float64
	Bus    []int
	Active []bool
}

func NewShuntSet(p, q []float64, bus []int, buses *BusSet) (*ShuntSet, error) {
	n := len(p)
	if len(q) != n || len(bus) != n {
		return nil, pfe.NewShapeError("shunts", fmt.Errorf("array lengths disagree"))
	}
	for i, b := range bus {
		if !buses.InRange(b) {
			return nil, pfe.NewShapeError("shunts", fmt.Errorf("shunt %d: bus %d out of range", i, b))
		}
	}
	active := make([]bool, n)
	for i := range active {
		active[i] = true
	}
	return &ShuntSet{P: p, Q: q, Bus: bus, Active: active}, nil
}

func (s *ShuntSet) Len() int { return len(s.P) }

// SetP changes the active-power value of a connected shunt. Mutating a
// disconnected element fails immediately rather than queuing a silent
// no-op.
func (s *ShuntSet) SetP(id int, p float64) error {
	if id < 0 || id >= len(s.P) {
		return pfe.NewShapeError("shunts", pfe.ErrIndexOutOfRange)
	}
	if !s.Active[id] {
		return &pfe.InvalidMutationError{ElementKind: "shunt", ID: id}
	}
	s.P[id] = p
	return nil
}

// SetQ changes the reactive-power value of a connected shunt.
func (s *ShuntSet) SetQ(id int, q float64) error {
	if id < 0 || id >= len(s.Q) {
		return pfe.NewShapeError("shunts", pfe.ErrIndexOutOfRange)
	}
	if !s.Active[id] {
		return &pfe.InvalidMutationError{ElementKind: "shunt", ID: id}
	}
	s.Q[id] = q
	return nil
}
