// Package solver implements two power-flow solution paths: a reduced-
// system DC solve and an AC Newton-Raphson iteration in polar
// coordinates, following the usual evaluate/factor-solve/update/re-check
// loop shape of a Newton iteration.
package solver

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"powerflow/pkg/matrix"
	"powerflow/pfe"
)

// NewtonResult carries everything a caller needs after a (possibly failed)
// AC solve.
type NewtonResult struct {
	V           []complex128
	Iterations  int
	Converged   bool
	LastNormInf float64
}

// SolveNewton runs the polar Newton-Raphson iteration. Y must be the
// full (all active buses) complex admittance matrix; pv and pq
// are solver-space bus ids (disjoint, neither containing slack). V0 is the
// starting iterate; its slack entry fixes the reference angle and
// magnitude for the whole run.
func SolveNewton(Y *matrix.ComplexMatrix, S []complex128, pv, pq []int, slack int, v0 []complex128, maxIter int, tol float64) (NewtonResult, error) {
	n := Y.Size()
	isPQ := make([]bool, n)
	for _, s := range pq {
		isPQ[s] = true
	}
	angleIdx := make([]int, n)
	for i := range angleIdx {
		angleIdx[i] = -1
	}
	vIdx := make([]int, n)
	for i := range vIdx {
		vIdx[i] = -1
	}
	nextAngle := 0
	for s := 0; s < n; s++ {
		if s == slack {
			continue
		}
		angleIdx[s] = nextAngle
		nextAngle++
	}
	nextV := 0
	for _, s := range pq {
		vIdx[s] = nextV
		nextV++
	}
	angleDim := nextAngle
	vDim := nextV
	dim := angleDim + vDim

	vm := make([]float64, n)
	theta := make([]float64, n)
	for s := 0; s < n; s++ {
		vm[s] = cmplxAbs(v0[s])
		theta[s] = cmplxPhase(v0[s])
	}
	V := make([]complex128, n)
	recompose := func() {
		for s := 0; s < n; s++ {
			V[s] = complex(vm[s]*math.Cos(theta[s]), vm[s]*math.Sin(theta[s]))
		}
	}
	recompose()

	F := make([]float64, dim)

	evalMismatch := func() error {
		yv, err := Y.MulVec(V)
		if err != nil {
			return err
		}
		scalc := make([]complex128, n)
		for s := 0; s < n; s++ {
			scalc[s] = V[s] * complex(real(yv[s]), -imag(yv[s]))
		}
		for s := 0; s < n; s++ {
			if s == slack {
				continue
			}
			F[angleIdx[s]] = real(S[s]) - real(scalc[s])
		}
		for _, s := range pq {
			F[angleDim+vIdx[s]] = imag(S[s]) - imag(scalc[s])
		}
		return nil
	}

	var last float64
	var sys *matrix.RealSystem
	for iter := 0; iter < maxIter; iter++ {
		if err := evalMismatch(); err != nil {
			return NewtonResult{}, err
		}
		last = floats.Norm(F, math.Inf(1))
		if last <= tol {
			return NewtonResult{V: V, Iterations: iter, Converged: true, LastNormInf: last}, nil
		}

		if sys == nil {
			var err error
			if sys, err = matrix.NewRealSystem(dim); err != nil {
				return NewtonResult{}, err
			}
			defer sys.Destroy()
		}
		sys.Clear()
		assembleJacobian(sys, Y, vm, theta, isPQ, angleIdx, vIdx, slack, n, angleDim)
		for i := 0; i < dim; i++ {
			sys.AddRHS(i+1, F[i])
		}
		sol, err := sys.Solve()
		if err != nil {
			return NewtonResult{}, err
		}

		for s := 0; s < n; s++ {
			if s == slack {
				continue
			}
			theta[s] += sol[angleIdx[s]+1]
		}
		for _, s := range pq {
			vm[s] += sol[angleDim+vIdx[s]+1]
		}
		recompose()
	}

	return NewtonResult{V: V, Iterations: maxIter, Converged: false, LastNormInf: last},
		&pfe.DivergenceError{Iterations: maxIter, LastNormInf: last, Tol: tol}
}

// assembleJacobian stamps the polar-coordinate Jacobian element-wise:
// diagonal terms from each bus's own P/Q and Y[k,k], off-
// diagonal terms from each stamped Y[k,j] pair.
func assembleJacobian(sys *matrix.RealSystem, Y *matrix.ComplexMatrix, vm, theta []float64, isPQ []bool, angleIdx, vIdx []int, slack, n, angleDim int) {
	p := make([]float64, n)
	q := make([]float64, n)
	for k := 0; k < n; k++ {
		var pk, qk float64
		for j := 0; j < n; j++ {
			y := Y.At(k, j)
			if y == 0 {
				continue
			}
			g, b := real(y), imag(y)
			d := theta[k] - theta[j]
			c, s := math.Cos(d), math.Sin(d)
			pk += vm[k] * vm[j] * (g*c + b*s)
			qk += vm[k] * vm[j] * (g*s - b*c)
		}
		p[k], q[k] = pk, qk
	}

	Y.Each(func(k, j int, y complex128) {
		if k == slack || j == slack {
			return
		}
		g, b := real(y), imag(y)
		tk, tj := angleIdx[k], angleIdx[j]

		if k == j {
			gkk, bkk := g, b
			sys.AddElement(tk+1, tk+1, -q[k]-bkk*vm[k]*vm[k])
			if isPQ[k] {
				vk := vIdx[k]
				sys.AddElement(tk+1, vk+1+angleDim, p[k]/vm[k]+gkk*vm[k])
				sys.AddElement(vk+1+angleDim, tk+1, p[k]-gkk*vm[k]*vm[k])
				sys.AddElement(vk+1+angleDim, vk+1+angleDim, q[k]/vm[k]-bkk*vm[k])
			}
			return
		}

		d := theta[k] - theta[j]
		c, s := math.Cos(d), math.Sin(d)
		dPdTj := vm[k] * vm[j] * (g*s - b*c)
		sys.AddElement(tk+1, tj+1, dPdTj)

		if isPQ[k] {
			vk := vIdx[k]
			dQdTj := -vm[k] * vm[j] * (g*c + b*s)
			sys.AddElement(vk+1+angleDim, tj+1, dQdTj)
		}
		if isPQ[j] {
			vj := vIdx[j]
			dPdVj := vm[k] * (g*c + b*s)
			sys.AddElement(tk+1, vj+1+angleDim, dPdVj)
			if isPQ[k] {
				vk := vIdx[k]
				dQdVj := vm[k] * (g*s - b*c)
				sys.AddElement(vk+1+angleDim, vj+1+angleDim, dQdVj)
			}
		}
	})
}

func cmplxAbs(v complex128) float64 {
	return math.Hypot(real(v), imag(v))
}

func cmplxPhase(v complex128) float64 {
	return math.Atan2(imag(v), real(v))
}
