package matrix

import "powerflow/pfe"

// ComplexMatrix is a hand-rolled sparse complex matrix in compressed sparse
// column form, built by accumulating triplets and then compacting. It
// holds Y (and the DC B'); the solvers read it through MulVec, At and
// Each, and it is never factored itself.
type ComplexMatrix struct {
	n       int
	triplet map[[2]int]complex128
	// compacted form, built lazily by compact
	colPtr []int
	rowIdx []int
	vals   []complex128
	dirty  bool
}

// NewComplexMatrix allocates an n x n zero matrix, 0-based indexing (unlike
// RealSystem, since this type never touches edp1096/sparse's 1-based C
// convention).
func NewComplexMatrix(n int) *ComplexMatrix {
	return &ComplexMatrix{n: n, triplet: make(map[[2]int]complex128), dirty: true}
}

func (m *ComplexMatrix) Size() int { return m.n }

// AddElement accumulates value into Y[i,j], 0-based.
func (m *ComplexMatrix) AddElement(i, j int, value complex128) {
	m.triplet[[2]int{i, j}] += value
	m.dirty = true
}

// Clear drops all stamped entries, ready for re-stamping on rebuild.
func (m *ComplexMatrix) Clear() {
	m.triplet = make(map[[2]int]complex128)
	m.dirty = true
}

// compact builds the CSC form from the accumulated triplets.
func (m *ComplexMatrix) compact() {
	if !m.dirty {
		return
	}
	counts := make([]int, m.n+1)
	for k := range m.triplet {
		counts[k[1]+1]++
	}
	for c := 0; c < m.n; c++ {
		counts[c+1] += counts[c]
	}
	m.colPtr = counts
	m.rowIdx = make([]int, len(m.triplet))
	m.vals = make([]complex128, len(m.triplet))

	cursor := make([]int, m.n)
	copy(cursor, m.colPtr[:m.n])
	for k, v := range m.triplet {
		i, j := k[0], k[1]
		pos := cursor[j]
		m.rowIdx[pos] = i
		m.vals[pos] = v
		cursor[j]++
	}
	m.dirty = false
}

// MulVec computes y = Y*x for a dense x of length n.
func (m *ComplexMatrix) MulVec(x []complex128) ([]complex128, error) {
	if len(x) != m.n {
		return nil, pfe.NewShapeError("mulvec", pfe.ErrShapeMismatch)
	}
	m.compact()
	y := make([]complex128, m.n)
	for j := 0; j < m.n; j++ {
		xj := x[j]
		if xj == 0 {
			continue
		}
		for p := m.colPtr[j]; p < m.colPtr[j+1]; p++ {
			y[m.rowIdx[p]] += m.vals[p] * xj
		}
	}
	return y, nil
}

// At returns the accumulated value at [i,j], 0-based; used by tests and by
// the Newton Jacobian assembly, without a full compaction.
func (m *ComplexMatrix) At(i, j int) complex128 {
	return m.triplet[[2]int{i, j}]
}

// Each iterates the accumulated (uncompacted) nonzero entries, 0-based. The
// DC solver uses this to copy B' into a reduced RealSystem without
// exposing the triplet map's type.
func (m *ComplexMatrix) Each(fn func(i, j int, v complex128)) {
	for k, v := range m.triplet {
		fn(k[0], k[1], v)
	}
}
