package octree

import (
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// State records how a tree came about and what was last done to it.
// StateFresh and StateSubTree describe its origin and survive Rebuild and
// Reuse; StateReGrown and StateReUsed describe the most recent action.
type State uint8

const (
	StateFresh State = 1 << iota
	StateSubTree
	StateReGrown
	StateReUsed
)

const stateOrigins = StateFresh | StateSubTree

// String lists the set bits joined by "|", or "none".
func (s State) String() string {
	names := []struct {
		bit  State
		name string
	}{
		{StateFresh, "fresh"},
		{StateSubTree, "sub_tree"},
		{StateReGrown, "re_grown"},
		{StateReUsed, "re_used"},
	}
	out := ""
	for _, n := range names {
		if s&n.bit == 0 {
			continue
		}
		if out != "" {
			out += "|"
		}
		out += n.name
	}
	if out == "" {
		return "none"
	}
	return out
}

// Usage is a cooperative tag readers can set to detect a tree that was
// rebuilt or reused underneath them. Every Rebuild or Reuse resets it to
// Unused.
type Usage uint8

const (
	Unused Usage = iota
	InUse
)

// layout is everything a build produces. Rebuilds assemble a new layout
// and only replace the old one once it is complete.
type layout struct {
	cells  []Cell
	leaves []Leaf
	radii  []float64
	depth  int
	center r3.Vector
}

// Tree is an octree over a set of bodies, stored as contiguous cell and
// leaf arrays (see Cell for the layout guarantees).
//
// A Tree has no internal locking. Build, Rebuild and Reuse must not run
// while any reader is using the tree; concurrent readers are fine.
type Tree struct {
	layout
	src   BodySource
	cfg   Config
	state State
	usage Usage
}

// Build constructs a tree over the bodies of src selected by cfg.Flags.
//
// When no bodies are selected Build logs a warning and returns an empty
// tree (no cells, no leaves, depth 0) rather than an error. A non-finite
// position or more than Ncrit coincident bodies is fatal.
func Build(src BodySource, cfg Config) (*Tree, error) {
	if src == nil {
		return nil, ErrNilBodySource
	}
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	start := time.Now()
	dots, ext, err := collectDots(src, cfg.Flags)
	if err != nil {
		return nil, err
	}
	lay, err := makeLayout(dots, ext, cfg)
	if err != nil {
		return nil, err
	}

	t := &Tree{src: src, cfg: cfg, state: StateFresh}
	t.install(lay, opBuild, start)
	return t, nil
}

// Rebuild builds the tree again from scratch with the current body
// positions, inserting bodies in the order of the existing leaves. The set
// of bodies is that of the existing tree. On error the tree is unchanged.
func (t *Tree) Rebuild() error {
	return t.rebuild(t.cfg)
}

// RebuildWith is Rebuild with new construction parameters. Zero-valued
// Logger and Metrics are inherited from the tree; cfg.Flags is ignored
// because the body set is taken from the existing leaves.
func (t *Tree) RebuildWith(cfg Config) error {
	if cfg.Logger == nil {
		cfg.Logger = t.cfg.Logger
	}
	if cfg.Metrics == nil {
		cfg.Metrics = t.cfg.Metrics
	}
	cfg.Flags = t.cfg.Flags
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return err
	}
	return t.rebuild(cfg)
}

func (t *Tree) rebuild(cfg Config) error {
	start := time.Now()
	dots, ext, err := collectLeafOrder(t.src, t.leaves)
	if err != nil {
		return err
	}
	lay, err := makeLayout(dots, ext, cfg)
	if err != nil {
		return err
	}
	t.cfg = cfg
	t.state = t.state&stateOrigins | StateReGrown
	t.install(lay, opRebuild, start)
	return nil
}

// Reuse refreshes the cached leaf positions from the body source without
// changing the tree's structure. Whether the old structure is still a good
// enough index for the new positions is the caller's decision.
func (t *Tree) Reuse() {
	start := time.Now()
	refreshLeaves(t.src, t.leaves, t.cfg.Workers)
	t.state = t.state&stateOrigins | StateReUsed
	t.usage = Unused
	t.cfg.Metrics.observe(opReuse, time.Since(start), nil)
}

// install makes lay the tree's layout and reports on it.
func (t *Tree) install(lay layout, op string, start time.Time) {
	t.layout = lay
	t.usage = Unused
	if len(lay.leaves) == 0 {
		kind := warnEmptyTree
		if op == opSubtree {
			kind = warnEmptySubtree
		}
		t.cfg.Logger.Warn("octree: no bodies in tree",
			zap.String("op", op),
			zap.String("kind", kind),
			zap.Int("bodies", t.src.Len()))
		t.cfg.Metrics.warn(kind)
	}
	t.cfg.Metrics.observe(op, time.Since(start), &lay)
}

// makeLayout runs the box-dot build and the link for dots.
func makeLayout(dots []dot, ext extent, cfg Config) (layout, error) {
	if b := cfg.Bounds; b != nil && len(dots) > 0 {
		if i := b.outside(dots); i >= 0 {
			return layout{}, errors.Wrapf(ErrOutsideBounds, "body %d at %v", dots[i].body, dots[i].pos)
		}
		ext.min, ext.max = b.Min, b.Max
	}
	center := rootCenter(cfg.Center, ext)
	if len(dots) == 0 {
		return layout{center: center}, nil
	}
	radius := rootRadius(center, ext)
	if !rootFits(center, radius) {
		return layout{}, errors.Wrapf(ErrExtentTooLarge,
			"root cell of half-size %g around %v from extent %v to %v", radius, center, ext.min, ext.max)
	}

	t0 := time.Now()
	bdt := newBoxDotTree(dots, cfg.Ncrit, cfg.MaxDepth, center, radius)
	if err := bdt.build(); err != nil {
		return layout{}, errors.Wrapf(err, "building box-dot tree of %d bodies", len(dots))
	}
	t1 := time.Now()
	cells, leaves, depth := bdt.link()

	cfg.Logger.Debug("octree: tree built",
		zap.Int("bodies", len(dots)),
		zap.Int("cells", len(cells)),
		zap.Int("depth", depth),
		zap.Int("ncrit", cfg.Ncrit),
		zap.Float64("root_radius", radius),
		zap.Duration("box_dot", t1.Sub(t0)),
		zap.Duration("link", time.Since(t1)))

	return layout{
		cells:  cells,
		leaves: leaves,
		radii:  bdt.radii,
		depth:  depth,
		center: center,
	}, nil
}

// MarkInUse tags the tree as being read.
func (t *Tree) MarkInUse() { t.usage = InUse }

// MarkUnused clears the in-use tag.
func (t *Tree) MarkUnused() { t.usage = Unused }

// Usage returns the in-use tag.
func (t *Tree) Usage() Usage { return t.usage }

// State returns how the tree was made and last updated.
func (t *Tree) State() State { return t.state }

// Bodies returns the body source the tree indexes.
func (t *Tree) Bodies() BodySource { return t.src }

// Ncrit returns the most leaves a cell may hold without being split.
func (t *Tree) Ncrit() int { return t.cfg.Ncrit }

// MaxDepth returns the deepest level a build may create.
func (t *Tree) MaxDepth() int { return t.cfg.MaxDepth }

// Depth returns the level of the deepest cell, 0 for an empty tree.
func (t *Tree) Depth() int { return t.depth }

// Cells returns the cell array in pre-order. It is shared with the tree
// and must not be modified.
func (t *Tree) Cells() []Cell { return t.cells }

// Leaves returns the leaf array. It is shared with the tree and must not
// be modified.
func (t *Tree) Leaves() []Leaf { return t.leaves }

// NCells returns the number of cells.
func (t *Tree) NCells() int { return len(t.cells) }

// NLeaves returns the number of leaves.
func (t *Tree) NLeaves() int { return len(t.leaves) }

// Cell returns cell i.
func (t *Tree) Cell(i int) Cell { return t.cells[i] }

// Leaf returns leaf i.
func (t *Tree) Leaf(i int) Leaf { return t.leaves[i] }

// Radii returns the cell half-size of each level, indexed by level.
func (t *Tree) Radii() []float64 { return t.radii }

// RootCenter returns the center of the root cell.
func (t *Tree) RootCenter() r3.Vector { return t.center }

// Empty reports whether the tree has no leaves.
func (t *Tree) Empty() bool { return len(t.leaves) == 0 }

// Root returns the root cell. It panics on an empty tree.
func (t *Tree) Root() Cell { return t.cells[0] }

// Radius returns the half-size of cells at the given level.
func (t *Tree) Radius(level int) float64 { return t.radii[level] }

// RootRadius returns the half-size of the root cell, or 0 for an empty tree.
func (t *Tree) RootRadius() float64 {
	if len(t.radii) == 0 {
		return 0
	}
	return t.radii[0]
}
