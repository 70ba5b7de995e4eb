package busindex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildCompactsAscending(t *testing.T) {
	active := []bool{true, false, true, true}
	idx, err := Build(active, 0)
	require.NoError(t, err)
	require.Equal(t, []int{0, -1, 1, 2}, idx.GridToSolver)
	require.Equal(t, []int{0, 2, 3}, idx.SolverToGrid)
	require.Equal(t, 0, idx.SlackSolver)
	require.Equal(t, 3, idx.Len())
}

func TestBuildSlackNotFirst(t *testing.T) {
	active := []bool{true, true, true}
	idx, err := Build(active, 2)
	require.NoError(t, err)
	require.Equal(t, 2, idx.SlackSolver)
}

func TestBuildSlackInactive(t *testing.T) {
	active := []bool{true, false, true}
	_, err := Build(active, 1)
	require.Error(t, err)
}

func TestBuildSlackOutOfRange(t *testing.T) {
	active := []bool{true, true}
	_, err := Build(active, 5)
	require.Error(t, err)
}
