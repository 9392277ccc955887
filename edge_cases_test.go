package octree

import (
	"math"
	"slices"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEdgeCase_SingleBody(t *testing.T) {
	tree, err := Build(NewBodies([]r3.Vector{{X: 1, Y: 2, Z: 3}}), DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, 1, tree.NCells())
	require.Equal(t, 1, tree.NLeaves())
	assert.Equal(t, 0, tree.Depth())
	assert.Equal(t, 0, tree.Leaf(0).Body)
}

func TestEdgeCase_NoBodies(t *testing.T) {
	tree, err := Build(NewBodies(nil), DefaultConfig())
	require.NoError(t, err, "empty input is not an error")
	assert.True(t, tree.Empty())

	// Rebuilding an empty tree stays empty.
	require.NoError(t, tree.Rebuild())
	assert.Equal(t, 0, tree.NCells())
}

func TestEdgeCase_NoneSelected(t *testing.T) {
	pos := []r3.Vector{{X: 0}, {X: 1}, {X: 2}}
	bodies := NewFlaggedBodies(pos, []Flag{1, 1, 1})
	cfg := DefaultConfig()
	cfg.Flags = 2
	tree, err := Build(bodies, cfg)
	require.NoError(t, err)
	assert.True(t, tree.Empty())
}

func TestEdgeCase_AllIdenticalBodies(t *testing.T) {
	pos := make([]r3.Vector, 10)
	for i := range pos {
		pos[i] = r3.Vector{X: 5, Y: 5, Z: 5}
	}

	cfg := DefaultConfig()
	cfg.Ncrit = 4
	_, err := Build(NewBodies(pos), cfg)
	require.ErrorIs(t, err, ErrMaxDepthExceeded)

	// With room for all of them in one twig the build succeeds.
	cfg.Ncrit = 10
	tree, err := Build(NewBodies(pos), cfg)
	require.NoError(t, err)
	assert.Equal(t, 10, tree.NLeaves())
}

func TestEdgeCase_BodiesOnCellBoundaries(t *testing.T) {
	// Integer grid points sit exactly on the boundaries of many cells.
	var pos []r3.Vector
	for x := -2; x <= 2; x++ {
		for y := -2; y <= 2; y++ {
			for z := -2; z <= 2; z++ {
				pos = append(pos, r3.Vector{X: float64(x), Y: float64(y), Z: float64(z)})
			}
		}
	}
	tree, err := Build(NewBodies(pos), DefaultConfig())
	require.NoError(t, err)
	checkTree(t, tree)
	assert.Equal(t, len(pos), tree.NLeaves())
}

func TestEdgeCase_LargeCoordinates(t *testing.T) {
	pos := []r3.Vector{
		{X: 1e12, Y: 1e12, Z: 1e12},
		{X: 1e12 + 1, Y: 1e12, Z: 1e12},
		{X: -1e12, Y: 0, Z: 0},
	}
	tree, err := Build(NewBodies(pos), DefaultConfig())
	require.NoError(t, err)
	checkTree(t, tree)
	assert.Greater(t, tree.RootRadius(), 1e12)
	assert.False(t, math.IsInf(tree.RootRadius(), 0))
}

func TestEdgeCase_NearMaxFloat(t *testing.T) {
	// Both bodies and their mean are finite even though their sum is not.
	pos := []r3.Vector{{X: 1e308}, {X: 1.5e308}}
	tree, err := Build(NewBodies(pos), DefaultConfig())
	require.NoError(t, err)
	checkTree(t, tree)
	assert.Equal(t, 2, tree.NLeaves())
	assert.InEpsilon(t, 1.25e308, tree.RootCenter().X, 1e-12)
	assert.False(t, math.IsInf(tree.RootRadius(), 0))
}

func TestEdgeCase_ExtentTooLarge(t *testing.T) {
	tests := []struct {
		name string
		pos  []r3.Vector
	}{
		{"symmetric", []r3.Vector{{X: -1.7e308}, {X: 1.7e308}}},
		{"root cube overflows", []r3.Vector{{Y: 1.6e308}, {Y: 1.79e308}}},
		{"difference overflows", []r3.Vector{{Z: -1.7e308}, {Z: -1.7e308}, {Z: 1.7e308}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(NewBodies(tt.pos), DefaultConfig())
			require.ErrorIs(t, err, ErrExtentTooLarge)
		})
	}
}

func TestEdgeCase_ExtentTooLargeKeepsTree(t *testing.T) {
	bodies := NewBodies([]r3.Vector{{X: 1}, {X: 2}, {X: 3}})
	tree, err := Build(bodies, DefaultConfig())
	require.NoError(t, err)
	cells := slices.Clone(tree.Cells())
	leaves := slices.Clone(tree.Leaves())

	bodies.SetPos(0, r3.Vector{X: -1.7e308})
	bodies.SetPos(2, r3.Vector{X: 1.7e308})
	require.ErrorIs(t, tree.Rebuild(), ErrExtentTooLarge)
	assert.Equal(t, cells, tree.Cells())
	assert.Equal(t, leaves, tree.Leaves())
}

func TestEdgeCase_TinySeparation(t *testing.T) {
	pos := []r3.Vector{
		{X: 0.5, Y: 0.5, Z: 0.5},
		{X: 0.5 + 1e-9, Y: 0.5, Z: 0.5},
	}
	cfg := DefaultConfig()
	cfg.MaxDepth = 20
	_, err := Build(NewBodies(pos), cfg)
	require.ErrorIs(t, err, ErrMaxDepthExceeded, "depth 20 cannot separate them")

	cfg.MaxDepth = MaxLevel
	tree, err := Build(NewBodies(pos), cfg)
	require.NoError(t, err)
	checkTree(t, tree)
	assert.GreaterOrEqual(t, tree.Depth(), 20)
}
