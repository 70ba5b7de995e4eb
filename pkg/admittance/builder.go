// Package admittance assembles the complex nodal admittance matrix Y and
// the complex injection vector S from the populated ElementSets, and
// derives which solver-space buses are PV and PQ.
package admittance

import (
	"powerflow/pkg/busindex"
	"powerflow/pkg/matrix"
	"powerflow/pkg/network"
)

// Result bundles everything Build produces from one pass.
type Result struct {
	Y  *matrix.ComplexMatrix // nil when ac is false; DC callers use B instead
	B  *matrix.ComplexMatrix // real-part-only, z=x, no line shunts (DC mode)
	S  []complex128          // length idx.Len(), solver-space
	PV []int                 // solver-space bus ids
	PQ []int                 // solver-space bus ids
}

// Inputs groups the ElementSets the builder reads; a single struct keeps
// Build's signature stable as new element kinds are supplemented.
type Inputs struct {
	Buses   *network.BusSet
	Lines   *network.LineSet
	Trafos  *network.TransformerSet
	Shunts  *network.ShuntSet
	Loads   *network.LoadSet
	Gens    *network.GeneratorSet
	SGens   *network.StaticGeneratorSet
	SlackID int // grid-space
}

// Build performs one full traversal, producing Y and S when ac is true, or
// the real DC admittance B and real injections folded into S's real part
// when ac is false. Both passes also derive PV/PQ.
func Build(in Inputs, idx busindex.Index, ac bool) Result {
	n := idx.Len()
	res := Result{S: make([]complex128, n)}

	if ac {
		res.Y = matrix.NewComplexMatrix(n)
		stampBranches(res.Y, in.Lines, in.Trafos, idx, true)
		stampShunts(res.Y, in.Shunts, idx)
	} else {
		res.B = matrix.NewComplexMatrix(n)
		stampBranches(res.B, in.Lines, in.Trafos, idx, false)
	}

	stampInjections(res.S, in, idx)
	res.PV, res.PQ = deriveRoles(in, idx)

	return res
}

// stampBranches applies the line and transformer stamping rules.
// When ac is false this is the DC pass: r and the shunts are dropped, and
// the transformer ratio is forced to 1 for the diagonal contribution. The
// DC series term is the imaginary part of the lossless complex admittance
// 1/(j*x), i.e. -1/x on the diagonal and +1/x off-diagonal, the same sign
// a reduced real susceptance matrix carries in the AC case.
func stampBranches(Y *matrix.ComplexMatrix, lines *network.LineSet, trafos *network.TransformerSet, idx busindex.Index, ac bool) {
	if lines != nil {
		for i := 0; i < lines.Len(); i++ {
			if !lines.Active[i] {
				continue
			}
			f, t := lines.From[i], lines.To[i]
			fs, ts := idx.GridToSolver[f], idx.GridToSolver[t]
			if fs == busindex.Inactive || ts == busindex.Inactive {
				continue
			}
			var y, h complex128
			if ac {
				y = seriesAdmittance(lines.R[i], lines.X[i])
				h = HalfShunt(lines.H[i])
			} else {
				y = -seriesAdmittance(lines.X[i], 0)
			}
			if y == 0 {
				continue
			}
			Y.AddElement(fs, fs, y+h)
			Y.AddElement(ts, ts, y+h)
			Y.AddElement(fs, ts, -y)
			Y.AddElement(ts, fs, -y)
		}
	}

	if trafos != nil {
		for i := 0; i < trafos.Len(); i++ {
			if !trafos.Active[i] {
				continue
			}
			hv, lv := trafos.HV[i], trafos.LV[i]
			hs, ls := idx.GridToSolver[hv], idx.GridToSolver[lv]
			if hs == busindex.Inactive || ls == busindex.Inactive {
				continue
			}
			var y, h complex128
			rho := trafos.Ratio[i]
			if ac {
				y = seriesAdmittance(trafos.R[i], trafos.X[i])
				h = HalfShunt(trafos.H[i])
			} else {
				y = -seriesAdmittance(trafos.X[i], 0)
				rho = 1
			}
			if y == 0 {
				continue
			}
			Y.AddElement(hs, ls, -y/rho)
			Y.AddElement(ls, hs, -y/rho)
			Y.AddElement(hs, hs, (y/rho+h)/rho)
			Y.AddElement(ls, ls, (y/rho+h)*rho)
		}
	}
}

// HalfShunt turns a supplied shunt susceptance b into the stamped
// half-line/half-transformer term h = j*(b/2), applied at each end. Also
// used by the results projector so branch-flow reporting matches the
// stamped Y exactly.
func HalfShunt(b complex128) complex128 {
	return complex(0, 0.5) * b
}

// stampShunts applies the diagonal subtraction rule; only meaningful in
// the AC (complex Y) pass.
func stampShunts(Y *matrix.ComplexMatrix, shunts *network.ShuntSet, idx busindex.Index) {
	if shunts == nil {
		return
	}
	for i := 0; i < shunts.Len(); i++ {
		if !shunts.Active[i] {
			continue
		}
		bs := idx.GridToSolver[shunts.Bus[i]]
		if bs == busindex.Inactive {
			continue
		}
		Y.AddElement(bs, bs, -complex(shunts.P[i], shunts.Q[i]))
	}
}

// seriesAdmittance returns 1/(r+jx), or 0 when z=0: a zero-impedance
// branch contributes no admittance and is silently skipped.
func seriesAdmittance(r, x float64) complex128 {
	if r == 0 && x == 0 {
		return 0
	}
	return 1 / complex(r, x)
}

// stampInjections assembles S from generators, static generators and
// loads, then applies slack compensation so the non-slack real sum nets to
// the actual injection.
func stampInjections(S []complex128, in Inputs, idx busindex.Index) {
	var totalGenP, totalLoadP float64

	if in.Gens != nil {
		for i := 0; i < in.Gens.Len(); i++ {
			if !in.Gens.Active[i] {
				continue
			}
			bs := idx.GridToSolver[in.Gens.Bus[i]]
			if bs == busindex.Inactive {
				continue
			}
			S[bs] += complex(in.Gens.P[i], 0)
			totalGenP += in.Gens.P[i]
		}
	}

	if in.SGens != nil {
		for i := 0; i < in.SGens.Len(); i++ {
			if !in.SGens.Active[i] {
				continue
			}
			bs := idx.GridToSolver[in.SGens.Bus[i]]
			if bs == busindex.Inactive {
				continue
			}
			S[bs] += complex(in.SGens.P[i], in.SGens.Q[i])
			totalGenP += in.SGens.P[i]
		}
	}

	if in.Loads != nil {
		for i := 0; i < in.Loads.Len(); i++ {
			if !in.Loads.Active[i] {
				continue
			}
			bs := idx.GridToSolver[in.Loads.Bus[i]]
			if bs == busindex.Inactive {
				continue
			}
			S[bs] -= complex(in.Loads.P[i], in.Loads.Q[i])
			totalLoadP += in.Loads.P[i]
		}
	}

	slackSolver := idx.SlackSolver
	S[slackSolver] -= complex(totalGenP-totalLoadP, 0)
}

// deriveRoles walks generators in row order: a non-slack bus hosting at
// least one active generator is PV, every other active non-slack bus is
// PQ. Static generators never promote a bus to PV.
func deriveRoles(in Inputs, idx busindex.Index) (pv, pq []int) {
	isPV := make([]bool, idx.Len())
	if in.Gens != nil {
		for i := 0; i < in.Gens.Len(); i++ {
			if !in.Gens.Active[i] {
				continue
			}
			bs := idx.GridToSolver[in.Gens.Bus[i]]
			if bs == busindex.Inactive || bs == idx.SlackSolver {
				continue
			}
			isPV[bs] = true
		}
	}

	for s := 0; s < idx.Len(); s++ {
		if s == idx.SlackSolver {
			continue
		}
		if isPV[s] {
			pv = append(pv, s)
		} else {
			pq = append(pq, s)
		}
	}
	return pv, pq
}

// PVVoltage returns the voltage setpoint to hold at solver-space bus s,
// taking the last-set value among co-located active generators (row
// order).
func PVVoltage(gens *network.GeneratorSet, idx busindex.Index, s int) (float64, bool) {
	if gens == nil {
		return 0, false
	}
	v, found := 0.0, false
	for i := 0; i < gens.Len(); i++ {
		if !gens.Active[i] {
			continue
		}
		if idx.GridToSolver[gens.Bus[i]] != s {
			continue
		}
		v = gens.VSet[i]
		found = true
	}
	return v, found
}
