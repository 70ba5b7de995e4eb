// Package matrix holds the matrix types the solvers need: RealSystem, a
// real sparse linear system backed by github.com/edp1096/sparse and used
// for both the reduced DC B' solve and the AC Newton Jacobian, and
// ComplexMatrix (complexsparse.go), a triplet-accumulated complex matrix
// holding Y and the DC B'. The Newton loop keeps one RealSystem for the
// whole run and only Clears its values between iterations, so the same
// sparse.Matrix is refactored each time; each SolveNewton or SolveDC call
// allocates its own.
package matrix

import (
	"fmt"

	"github.com/edp1096/sparse"

	"powerflow/pfe"
)

// RealSystem is a real-valued sparse linear system A·x = b, 1-based
// indexing to match the underlying library. It is used for the DC
// power-flow's reduced B' system and for the Newton Jacobian.
type RealSystem struct {
	Size   int
	matrix *sparse.Matrix
	rhs    []float64
	config *sparse.Configuration
}

// NewRealSystem allocates an empty size x size real system and a zeroed
// right-hand side; nonzero entries are created as elements are added.
func NewRealSystem(size int) (*RealSystem, error) {
	config := &sparse.Configuration{
		Real:           true,
		Complex:        false,
		Expandable:     true,
		ModifiedNodal:  true,
		TiesMultiplier: 5,
		PrinterWidth:   140,
	}

	mat, err := sparse.Create(int64(size), config)
	if err != nil {
		return nil, pfe.NewNumericalError("create", err)
	}

	return &RealSystem{
		Size:   size,
		matrix: mat,
		rhs:    make([]float64, size+1),
		config: config,
	}, nil
}

// AddElement accumulates value into A[i,j], 1-based.
func (m *RealSystem) AddElement(i, j int, value float64) {
	if i <= 0 || j <= 0 || i > m.Size || j > m.Size {
		return
	}
	m.matrix.GetElement(int64(i), int64(j)).Real += value
}

// AddRHS accumulates value into b[i], 1-based.
func (m *RealSystem) AddRHS(i int, value float64) {
	if i <= 0 || i > m.Size {
		return
	}
	m.rhs[i] += value
}

// Clear zeroes the matrix values and the RHS without releasing the
// underlying sparse structure, so the Newton loop can restamp the
// Jacobian into the same matrix on every iteration.
func (m *RealSystem) Clear() {
	m.matrix.Clear()
	for i := range m.rhs {
		m.rhs[i] = 0
	}
}

// Solve factors A and solves for x, returning the 1-based solution vector
// (solution[0] is unused padding).
func (m *RealSystem) Solve() ([]float64, error) {
	if err := m.matrix.Factor(); err != nil {
		return nil, pfe.NewNumericalError("factor", fmt.Errorf("%w: %v", pfe.ErrSingularMatrix, err))
	}
	solution, err := m.matrix.Solve(m.rhs)
	if err != nil {
		return nil, pfe.NewNumericalError("solve", err)
	}
	return solution, nil
}

// Destroy releases the underlying C-allocated sparse structure.
func (m *RealSystem) Destroy() {
	if m.matrix != nil {
		m.matrix.Destroy()
	}
}
