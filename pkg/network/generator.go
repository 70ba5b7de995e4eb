package network

import (
	"fmt"

	"powerflow/pfe"
)

// GeneratorSet is the per-generator table: a p-setpoint (MW, consumed
// directly into Sbus) and a v-setpoint (pu) that fixes |V| at its bus. A
// generator's bus becomes PV unless it is the slack; multiple generators
// sharing a bus collapse into one PV node whose v is the last-set value
// among the active ones (see admittance.PVVoltage, which walks generators
// in row order).
type GeneratorSet struct {
	P, VSet []float64
	Bus     []int
	Active  []bool
}

func NewGeneratorSet(p, vset []float64, bus []int, buses *BusSet) (*GeneratorSet, error) {
	n := len(p)
	if len(vset) != n || len(bus) != n {
		return nil, pfe.NewShapeError("generators", fmt.Errorf("array lengths disagree"))
	}
	for i, b := range bus {
		if !buses.InRange(b) {
			return nil, pfe.NewShapeError("generators", fmt.Errorf("generator %d: bus %d out of range", i, b))
		}
	}
	active := make([]bool, n)
	for i := range active {
		active[i] = true
	}
	return &GeneratorSet{P: p, VSet: vset, Bus: bus, Active: active}, nil
}

func (s *GeneratorSet) Len() int { return len(s.P) }

// SetP changes the active-power setpoint of a connected generator.
func (s *GeneratorSet) SetP(id int, p float64) error {
	if id < 0 || id >= len(s.P) {
		return pfe.NewShapeError("generators", pfe.ErrIndexOutOfRange)
	}
	if !s.Active[id] {
		return &pfe.InvalidMutationError{ElementKind: "generator", ID: id}
	}
	s.P[id] = p
	return nil
}

// SetVSet changes the voltage setpoint of a connected generator.
func (s *GeneratorSet) SetVSet(id int, v float64) error {
	if id < 0 || id >= len(s.VSet) {
		return pfe.NewShapeError("generators", pfe.ErrIndexOutOfRange)
	}
	if !s.Active[id] {
		return &pfe.InvalidMutationError{ElementKind: "generator", ID: id}
	}
	s.VSet[id] = v
	return nil
}

// StaticGeneratorSet models a PQ-only injection source: unlike
// GeneratorSet it never promotes a bus to PV, it only adds a fixed P+jQ
// to Sbus like a negative load.
type StaticGeneratorSet struct {
	P, Q   []float64
	Bus    []int
	Active []bool
}

func NewStaticGeneratorSet(p, q []float64, bus []int, buses *BusSet) (*StaticGeneratorSet, error) {
	n := len(p)
	if len(q) != n || len(bus) != n {
		return nil, pfe.NewShapeError("static_generators", fmt.Errorf("array lengths disagree"))
	}
	for i, b := range bus {
		if !buses.InRange(b) {
			return nil, pfe.NewShapeError("static_generators", fmt.Errorf("static generator %d: bus %d out of range", i, b))
		}
	}
	active := make([]bool, n)
	for i := range active {
		active[i] = true
	}
	return &StaticGeneratorSet{P: p, Q: q, Bus: bus, Active: active}, nil
}

func (s *StaticGeneratorSet) Len() int { return len(s.P) }
