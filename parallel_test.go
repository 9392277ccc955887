package octree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeLeaves(b *Bodies) []Leaf {
	leaves := make([]Leaf, b.Len())
	for i := range leaves {
		// reversed so workers touch bodies out of order
		leaves[i] = Leaf{Body: b.Len() - 1 - i}
	}
	return leaves
}

func TestRefreshLeaves_MatchesSequential(t *testing.T) {
	bodies := plummerBodies(5000, 3)

	sequential := makeLeaves(bodies)
	refreshRange(bodies, sequential)

	for _, workers := range []int{1, 2, 3, 4, 8} {
		parallel := makeLeaves(bodies)
		refreshLeaves(bodies, parallel, workers)
		assert.Equalf(t, sequential, parallel, "workers=%d", workers)
	}
}

func TestRefreshLeaves_Small(t *testing.T) {
	bodies := uniformBodies(10, 1)
	leaves := makeLeaves(bodies)

	refreshLeaves(bodies, leaves, 16)

	for i, l := range leaves {
		assert.Equalf(t, bodies.Pos(l.Body), l.Pos, "leaf %d", i)
	}
}

func TestRefreshLeaves_Empty(t *testing.T) {
	assert.NotPanics(t, func() { refreshLeaves(NewBodies(nil), nil, 4) })
}

func TestReuse_ParallelMatchesSequential(t *testing.T) {
	bodies := plummerBodies(8000, 9)

	seqCfg := testConfig(4)
	seqCfg.Workers = 1
	seq, err := Build(bodies, seqCfg)
	require.NoError(t, err)
	parCfg := seqCfg
	parCfg.Workers = 4
	par, err := Build(bodies, parCfg)
	require.NoError(t, err)

	bodies.Translate(vec(0.5, 0.25, -0.125))
	seq.Reuse()
	par.Reuse()

	require.Equal(t, seq.Leaves(), par.Leaves())
}
