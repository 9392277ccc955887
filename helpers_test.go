package octree

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TrevorS/octree/model"
)

// checkTree verifies the layout guarantees every finished tree must meet:
// contiguous child blocks, contiguous leaf runs, consistent counts, child
// geometry derived from the parent, and every leaf inside its cell.
func checkTree(t *testing.T, tree *Tree) {
	t.Helper()
	cells, leaves := tree.Cells(), tree.Leaves()
	if len(cells) == 0 {
		require.Empty(t, leaves)
		require.Equal(t, 0, tree.Depth())
		return
	}

	root := cells[0]
	require.Equal(t, 0, root.FirstLeaf)
	require.Equal(t, len(leaves), root.Number)
	require.Equal(t, uint8(0), root.Level)

	maxLevel := 0
	for ci, c := range cells {
		maxLevel = max(maxLevel, int(c.Level))
		lb, le := c.LeafKids()
		for li := lb; li < le; li++ {
			assert.Truef(t, Contains(tree, c, leaves[li].Pos),
				"leaf %d at %v outside cell %d", li, leaves[li].Pos, ci)
		}

		n, next, prevOct := c.NLeaves, le, -1
		cb, ce := c.CellKids()
		for k := cb; k < ce; k++ {
			require.Greaterf(t, k, ci, "cell kid %d of cell %d", k, ci)
			kid := cells[k]
			assert.Equal(t, c.Level+1, kid.Level)
			assert.Equalf(t, next, kid.FirstLeaf, "leaf run of cell %d", k)
			assert.Greater(t, int(kid.Octant), prevOct)
			assert.Equal(t, octantCenter(c.Center, int(kid.Octant), tree.Radius(int(kid.Level))), kid.Center)
			prevOct = int(kid.Octant)
			next += kid.Number
			n += kid.Number
		}
		assert.Equalf(t, c.Number, n, "number of cell %d", ci)
	}
	assert.Equal(t, maxLevel, tree.Depth())

	visited := 0
	Walk(tree, func(int, Cell) bool { visited++; return true })
	assert.Equal(t, len(cells), visited)

	seen := make(map[int]bool, len(leaves))
	for _, l := range leaves {
		require.Falsef(t, seen[l.Body], "body %d appears twice", l.Body)
		seen[l.Body] = true
	}
}

// maxTwigLeaves returns the largest number of leaf kids of any cell
// without cell kids.
func maxTwigLeaves(tree *Tree) int {
	m := 0
	for _, c := range tree.Cells() {
		if c.IsTwig() {
			m = max(m, c.NLeaves)
		}
	}
	return m
}

func plummerBodies(n int, seed uint64) *Bodies {
	p := model.NewPlummer(model.PlummerConfig{Seed: seed})
	return NewBodies(p.Positions(n))
}

func uniformBodies(n int, seed uint64) *Bodies {
	return NewBodies(model.UniformCube(n, 0, 1, seed))
}

func testConfig(ncrit int) Config {
	cfg := DefaultConfig()
	cfg.Ncrit = ncrit
	return cfg
}

func vec(x, y, z float64) r3.Vector { return r3.Vector{X: x, Y: y, Z: z} }
