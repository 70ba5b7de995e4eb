// Package results projects a converged (or DC-solved) voltage vector back
// into grid-space reports: per-branch flows, and per load/shunt/generator
// summaries. One function projects both lines and transformers, rather
// than duplicating the branch-flow formula per element kind. Voltage
// lookups are always by bus id, never by element id, to avoid aliasing
// a bus's voltage with an unrelated element sharing the same row index.
package results

import (
	"math"

	"powerflow/internal/pfconst"
	"powerflow/pkg/admittance"
	"powerflow/pkg/busindex"
	"powerflow/pkg/matrix"
)

// BranchFlow is the two-ended report for one line or transformer.
type BranchFlow struct {
	POE, QOE float64 // MW, MVAr, origin->end
	PEO, QEO float64 // MW, MVAr, end->origin
	VOKV     float64
	VEKV     float64
	AOE, AEO float64 // kA
}

// ElementReport is the single-bus report shared by loads, shunts and
// generators.
type ElementReport struct {
	P, Q float64 // MW, MVAr
	VKV  float64
}

// Results bundles every per-element report plus the grid-space voltage
// profile. Vm/Va are zero for deactivated buses.
type Results struct {
	Lines  []BranchFlow
	Trafos []BranchFlow
	Loads  []ElementReport
	Shunts []ElementReport
	Gens   []ElementReport
	SGens  []ElementReport
	Vm, Va []float64
}

// Project turns a solver-space voltage vector into grid-space reports. Y is
// only consulted (for generator reactive-output derivation) when ac is
// true; DC callers pass nil.
func Project(ac bool, V []complex128, Y *matrix.ComplexMatrix, idx busindex.Index, in admittance.Inputs, baseMVA float64) Results {
	nGrid := in.Buses.Len()
	vmGrid := make([]float64, nGrid)
	vaGrid := make([]float64, nGrid)
	vGrid := make([]complex128, nGrid)

	for g := 0; g < nGrid; g++ {
		if !in.Buses.Active[g] {
			continue
		}
		s := idx.GridToSolver[g]
		if s == busindex.Inactive {
			continue
		}
		vGrid[g] = V[s]
		vmGrid[g] = cabs(V[s])
		vaGrid[g] = cphase(V[s])
	}

	res := Results{Vm: vmGrid, Va: vaGrid}

	if in.Lines != nil {
		res.Lines = make([]BranchFlow, in.Lines.Len())
		for i := 0; i < in.Lines.Len(); i++ {
			if !in.Lines.Active[i] || !in.Buses.Active[in.Lines.From[i]] || !in.Buses.Active[in.Lines.To[i]] {
				continue
			}
			res.Lines[i] = projectBranch(
				in.Lines.R[i], in.Lines.X[i], admittance.HalfShunt(in.Lines.H[i]),
				vGrid[in.Lines.From[i]], vGrid[in.Lines.To[i]],
				in.Buses.VnKV[in.Lines.From[i]], in.Buses.VnKV[in.Lines.To[i]],
				baseMVA,
			)
		}
	}

	if in.Trafos != nil {
		res.Trafos = make([]BranchFlow, in.Trafos.Len())
		for i := 0; i < in.Trafos.Len(); i++ {
			if !in.Trafos.Active[i] || !in.Buses.Active[in.Trafos.HV[i]] || !in.Buses.Active[in.Trafos.LV[i]] {
				continue
			}
			res.Trafos[i] = projectBranch(
				in.Trafos.R[i], in.Trafos.X[i], admittance.HalfShunt(in.Trafos.H[i]),
				vGrid[in.Trafos.HV[i]], vGrid[in.Trafos.LV[i]],
				in.Buses.VnKV[in.Trafos.HV[i]], in.Buses.VnKV[in.Trafos.LV[i]],
				baseMVA,
			)
		}
	}

	if in.Loads != nil {
		res.Loads = make([]ElementReport, in.Loads.Len())
		for i := 0; i < in.Loads.Len(); i++ {
			if !in.Loads.Active[i] || !in.Buses.Active[in.Loads.Bus[i]] {
				continue
			}
			res.Loads[i] = ElementReport{P: in.Loads.P[i] * baseMVA, Q: in.Loads.Q[i] * baseMVA, VKV: vmGrid[in.Loads.Bus[i]] * in.Buses.VnKV[in.Loads.Bus[i]]}
		}
	}

	if in.Shunts != nil {
		res.Shunts = make([]ElementReport, in.Shunts.Len())
		for i := 0; i < in.Shunts.Len(); i++ {
			if !in.Shunts.Active[i] || !in.Buses.Active[in.Shunts.Bus[i]] {
				continue
			}
			res.Shunts[i] = ElementReport{P: in.Shunts.P[i] * baseMVA, Q: in.Shunts.Q[i] * baseMVA, VKV: vmGrid[in.Shunts.Bus[i]] * in.Buses.VnKV[in.Shunts.Bus[i]]}
		}
	}

	if in.SGens != nil {
		res.SGens = make([]ElementReport, in.SGens.Len())
		for i := 0; i < in.SGens.Len(); i++ {
			if !in.SGens.Active[i] || !in.Buses.Active[in.SGens.Bus[i]] {
				continue
			}
			res.SGens[i] = ElementReport{P: in.SGens.P[i] * baseMVA, Q: in.SGens.Q[i] * baseMVA, VKV: vmGrid[in.SGens.Bus[i]] * in.Buses.VnKV[in.SGens.Bus[i]]}
		}
	}

	if in.Gens != nil {
		res.Gens = make([]ElementReport, in.Gens.Len())
		qByBus := map[int]float64{}
		if ac && Y != nil {
			qByBus = deriveGenReactivePower(V, Y, idx, in)
		}
		coCount := map[int]int{}
		for i := 0; i < in.Gens.Len(); i++ {
			if !in.Gens.Active[i] || !in.Buses.Active[in.Gens.Bus[i]] {
				continue
			}
			coCount[in.Gens.Bus[i]]++
		}
		for i := 0; i < in.Gens.Len(); i++ {
			if !in.Gens.Active[i] || !in.Buses.Active[in.Gens.Bus[i]] {
				continue
			}
			bus := in.Gens.Bus[i]
			q := qByBus[bus] / float64(max1(coCount[bus]))
			res.Gens[i] = ElementReport{P: in.Gens.P[i] * baseMVA, Q: q * baseMVA, VKV: vmGrid[bus] * in.Buses.VnKV[bus]}
		}
	}

	return res
}

// deriveGenReactivePower computes q_gen[bus] =
// Im(V[bus]*conj((Y*V)[bus])) + q_load_at_bus, evaluated once
// per PV bus and then split evenly across co-located generators (the
// caller-defined split rule this implementation chooses).
func deriveGenReactivePower(V []complex128, Y *matrix.ComplexMatrix, idx busindex.Index, in admittance.Inputs) map[int]float64 {
	yv, err := Y.MulVec(V)
	if err != nil {
		return nil
	}
	qLoadByBus := map[int]float64{}
	if in.Loads != nil {
		for i := 0; i < in.Loads.Len(); i++ {
			if in.Loads.Active[i] {
				qLoadByBus[in.Loads.Bus[i]] += in.Loads.Q[i]
			}
		}
	}

	out := map[int]float64{}
	seen := map[int]bool{}
	if in.Gens != nil {
		for i := 0; i < in.Gens.Len(); i++ {
			if !in.Gens.Active[i] {
				continue
			}
			bus := in.Gens.Bus[i]
			if seen[bus] {
				continue
			}
			seen[bus] = true
			s := idx.GridToSolver[bus]
			if s == busindex.Inactive {
				continue
			}
			qCalc := imag(V[s] * conjScalar(yv[s]))
			out[bus] = qCalc + qLoadByBus[bus]
		}
	}
	return out
}

func projectBranch(r, x float64, h complex128, vo, ve complex128, voBaseKV, veBaseKV, baseMVA float64) BranchFlow {
	if vo == 0 || ve == 0 {
		return BranchFlow{}
	}
	var y complex128
	if r != 0 || x != 0 {
		y = 1 / complex(r, x)
	}
	ioe := y*(vo-ve) + h*vo
	ieo := y*(ve-vo) + h*ve
	soe := vo * conjScalar(ioe)
	seo := ve * conjScalar(ieo)

	voKV := cabs(vo) * voBaseKV
	veKV := cabs(ve) * veBaseKV
	poe, qoe := real(soe)*baseMVA, imag(soe)*baseMVA
	peo, qeo := real(seo)*baseMVA, imag(seo)*baseMVA

	return BranchFlow{
		POE: poe, QOE: qoe,
		PEO: peo, QEO: qeo,
		VOKV: voKV, VEKV: veKV,
		AOE: threePhaseAmps(poe, qoe, voKV),
		AEO: threePhaseAmps(peo, qeo, veKV),
	}
}

// threePhaseAmps computes a = sqrt(p^2+q^2)/(sqrt(3)*v), returning 0 for
// a disconnected (zero-voltage) end.
func threePhaseAmps(pMW, qMVAr, vKV float64) float64 {
	if vKV == 0 {
		return 0
	}
	return math.Hypot(pMW, qMVAr) / (pfconst.Sqrt3 * vKV)
}

func cabs(v complex128) float64   { return math.Hypot(real(v), imag(v)) }
func cphase(v complex128) float64 { return math.Atan2(imag(v), real(v)) }
func conjScalar(v complex128) complex128 { return complex(real(v), -imag(v)) }

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
