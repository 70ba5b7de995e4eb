package solver

import (
	"math"
	"math/cmplx"

	"powerflow/pkg/admittance"
	"powerflow/pkg/busindex"
	"powerflow/pkg/matrix"
	"powerflow/pkg/network"
)

// SolveDC implements the linearized DC power-flow path: eliminate the
// slack row and column from B', solve the reduced real system, re-expand,
// and apply PV voltage setpoints.
func SolveDC(B *matrix.ComplexMatrix, P []float64, v0 []complex128, idx busindex.Index, gens *network.GeneratorSet) ([]complex128, error) {
	n := idx.Len()
	slack := idx.SlackSolver
	if n == 1 {
		return []complex128{v0[slack]}, nil
	}

	reducedID := make([]int, n)
	next := 0
	for s := 0; s < n; s++ {
		if s == slack {
			reducedID[s] = -1
			continue
		}
		reducedID[s] = next
		next++
	}

	sys, err := matrix.NewRealSystem(n - 1)
	if err != nil {
		return nil, err
	}
	defer sys.Destroy()

	B.Each(func(i, j int, v complex128) {
		if i == slack || j == slack {
			return
		}
		sys.AddElement(reducedID[i]+1, reducedID[j]+1, real(v))
	})
	for s := 0; s < n; s++ {
		if s == slack {
			continue
		}
		sys.AddRHS(reducedID[s]+1, P[s])
	}

	sol, err := sys.Solve()
	if err != nil {
		return nil, err
	}

	theta := make([]float64, n)
	for s := 0; s < n; s++ {
		if s == slack {
			continue
		}
		theta[s] = sol[reducedID[s]+1]
	}

	refPhase := cmplx.Phase(v0[slack])
	for s := range theta {
		theta[s] += refPhase
	}

	vm := make([]float64, n)
	for s := 0; s < n; s++ {
		if v, ok := admittance.PVVoltage(gens, idx, s); ok {
			vm[s] = v
		} else {
			vm[s] = cmplx.Abs(v0[s])
		}
	}

	V := make([]complex128, n)
	for s := 0; s < n; s++ {
		V[s] = complex(vm[s]*math.Cos(theta[s]), vm[s]*math.Sin(theta[s]))
	}
	return V, nil
}
