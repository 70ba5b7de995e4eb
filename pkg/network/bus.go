// Package network holds the ElementSets: per-element-kind record-of-arrays
// tables (buses, lines, transformers, shunts, loads, generators) that the
// host populates before a solve. Each row index is the element's stable
// EntityId; status is a bit per row.
package network

import (
	"fmt"

	"powerflow/pfe"
)

// Role is derived, never stored: it depends on which buses host an active
// generator and which bus is the slack, so it is recomputed on every
// admittance.Build pass rather than cached on BusSet.
type Role int

const (
	RoleIsolated Role = iota
	RoleSlack
	RolePV
	RolePQ
)

func (r Role) String() string {
	switch r {
	case RoleSlack:
		return "slack"
	case RolePV:
		return "PV"
	case RolePQ:
		return "PQ"
	default:
		return "isolated"
	}
}

// BusSet is the per-bus table: base voltage for reporting, and the active
// mask. The slack bus id is not stored here; it is passed separately
// (admittance.Inputs.SlackID).
type BusSet struct {
	VnKV   []float64
	Active []bool
}

// NewBusSet validates and wraps the per-bus base-voltage array. Every bus
// starts active; deactivation is a separate mutation.
func NewBusSet(vnKV []float64) (*BusSet, error) {
	for i, v := range vnKV {
		if v <= 0 {
			return nil, pfe.NewShapeError("bus_vn_kv", fmt.Errorf("index %d: base voltage %g must be positive", i, v))
		}
	}
	active := make([]bool, len(vnKV))
	for i := range active {
		active[i] = true
	}
	return &BusSet{VnKV: vnKV, Active: active}, nil
}

func (b *BusSet) Len() int { return len(b.VnKV) }

// InRange reports whether id is a valid row index into this set.
func (b *BusSet) InRange(id int) bool { return id >= 0 && id < len(b.VnKV) }
