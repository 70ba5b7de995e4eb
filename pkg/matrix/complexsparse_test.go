package matrix

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComplexMatrixMulVecIdentity(t *testing.T) {
	m := NewComplexMatrix(3)
	for i := 0; i < 3; i++ {
		m.AddElement(i, i, 1)
	}
	x := []complex128{1 + 2i, 3, 0 - 1i}
	y, err := m.MulVec(x)
	require.NoError(t, err)
	require.Equal(t, x, y)
}

func TestComplexMatrixMulVecOffDiagonal(t *testing.T) {
	m := NewComplexMatrix(2)
	m.AddElement(0, 0, 2)
	m.AddElement(0, 1, -1)
	m.AddElement(1, 0, -1)
	m.AddElement(1, 1, 2)
	y, err := m.MulVec([]complex128{1, 1})
	require.NoError(t, err)
	require.InDelta(t, 1, real(y[0]), 1e-12)
	require.InDelta(t, 1, real(y[1]), 1e-12)
}

func TestComplexMatrixAccumulates(t *testing.T) {
	m := NewComplexMatrix(1)
	m.AddElement(0, 0, 1+1i)
	m.AddElement(0, 0, 2)
	require.Equal(t, complex(3, 1), m.At(0, 0))
}

func TestComplexMatrixShapeMismatch(t *testing.T) {
	m := NewComplexMatrix(2)
	_, err := m.MulVec([]complex128{1})
	require.Error(t, err)
}

func TestComplexMatrixClear(t *testing.T) {
	m := NewComplexMatrix(2)
	m.AddElement(0, 0, 5)
	m.Clear()
	require.Equal(t, complex128(0), m.At(0, 0))
}
