// Package octree builds the spatial index of an N-body gravity solver: an
// octree over point masses, laid out as flat cell and leaf arrays for fast
// traversal by a force evaluator.
//
// Construction happens in two phases. Bodies are first inserted one by one
// into a temporary tree of boxes; boxes hold up to Ncrit bodies before
// they are split into octants. That tree is then linked into the final
// arrays so that the child cells of every cell are contiguous, and so are
// all leaves below any cell. The second phase can size the arrays exactly
// because the first already knows every count.
//
// Basic usage:
//
//	bodies := octree.NewBodies(positions)
//	cfg := octree.DefaultConfig()
//	cfg.Ncrit = 8
//	tree, err := octree.Build(bodies, cfg)
//	// tree.Cells()[0] is the root; tree.Leaves()[i].Body indexes bodies
//
// Between simulation steps the tree can be kept current in two ways:
//
//	tree.Reuse()          // refresh leaf positions, keep the structure
//	err = tree.Rebuild()  // rebuild, inserting bodies in the old leaf order
//
// A reduced tree over flagged bodies, sharing the parent's geometry:
//
//	active := tree.ExtractSubtree(flagActive, 4)
//
// Any Reader can be walked with Walk and searched with Nearest and Within.
//
// # Errors
//
// Non-finite positions and more than Ncrit coincident bodies abort a build
// with ErrNonFinitePosition and ErrMaxDepthExceeded. Bodies spread too
// widely for a float64 root cube give ErrExtentTooLarge, and bodies outside
// a configured Bounds give ErrOutsideBounds. A failed Rebuild leaves
// the tree as it was. Empty inputs are not errors: they give an empty tree
// and a logged warning.
package octree
