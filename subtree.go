package octree

import "time"

// ExtractSubtree builds a reduced tree holding only the leaves whose body
// flags intersect flag (flag 0 selects every leaf). Cells keep the
// parent's geometry: level, octant, center and the radius table are copied,
// not recomputed.
//
// A parent cell is kept as a cell when at least minCount selected leaves
// lie below it. A cell with fewer, but some, selected leaves is collapsed:
// its selected leaves become leaf kids of the nearest kept ancestor, which
// is flagged CellCollapsed. minCount < 1 is treated as 1, which keeps every
// cell that has a selected leaf.
//
// If nothing is selected, or the root itself has fewer than minCount
// selected leaves, a warning is logged and an empty tree returned.
// The parent is only read, so it must not be rebuilt concurrently.
func (t *Tree) ExtractSubtree(flag Flag, minCount int) *Tree {
	start := time.Now()
	if minCount < 1 {
		minCount = 1
	}

	sel, ncells := t.markSubtree(flag, minCount)

	sub := &Tree{
		src:   t.src,
		cfg:   t.cfg,
		state: t.state | StateSubTree,
	}
	lay := layout{radii: t.radii, center: t.center}
	if ncells > 0 {
		lay.cells = make([]Cell, ncells)
		lay.leaves = make([]Leaf, sel[0])
		l := &subLinker{
			parent:   t,
			sel:      sel,
			minCount: minCount,
			flag:     flag,
			out:      &lay,
			nextCell: 1,
		}
		lay.depth = l.link(0, 0) - 1
	}
	sub.install(lay, opSubtree, start)
	return sub
}

// markSubtree counts, for every parent cell, the selected leaves below it,
// and how many cells reach minCount. Cells are visited from the back:
// cell kids always sit at higher indices than their parent.
func (t *Tree) markSubtree(flag Flag, minCount int) (sel []int, ncells int) {
	sel = make([]int, len(t.cells))
	for ci := len(t.cells) - 1; ci >= 0; ci-- {
		c := &t.cells[ci]
		n := 0
		lb, le := c.LeafKids()
		for li := lb; li < le; li++ {
			if selected(t.src, t.leaves[li].Body, flag) {
				n++
			}
		}
		cb, ce := c.CellKids()
		for k := cb; k < ce; k++ {
			n += sel[k]
		}
		sel[ci] = n
		if n >= minCount {
			ncells++
		}
	}
	return sel, ncells
}

// subLinker copies the marked part of a parent tree into a new layout with
// the same contiguity guarantees as a fresh build.
type subLinker struct {
	parent   *Tree
	sel      []int
	minCount int
	flag     Flag
	out      *layout
	nextCell int
	nextLeaf int
}

// link fills out.cells[ci] from parent cell pi and returns the number of
// levels from ci down.
func (l *subLinker) link(pi, ci int) int {
	p := &l.parent.cells[pi]
	c := &l.out.cells[ci]
	*c = Cell{
		Level:     p.Level,
		Octant:    p.Octant,
		Flags:     CellSubtree,
		Center:    p.Center,
		FirstLeaf: l.nextLeaf,
		FirstCell: -1,
	}

	lb, le := p.LeafKids()
	l.copyLeaves(c, lb, le)

	cb, ce := p.CellKids()
	for k := cb; k < ce; k++ {
		switch n := l.sel[k]; {
		case n >= l.minCount:
			c.NCells++
		case n > 0:
			kb, ke := l.parent.cells[k].Leaves()
			l.copyLeaves(c, kb, ke)
			c.Flags |= CellCollapsed
		}
	}
	c.Number = c.NLeaves

	if c.NCells == 0 {
		return 1
	}
	next := l.nextCell
	c.FirstCell = next
	l.nextCell += c.NCells

	depth := 0
	for k := cb; k < ce; k++ {
		if l.sel[k] < l.minCount {
			continue
		}
		depth = max(depth, l.link(k, next))
		c.Number += l.out.cells[next].Number
		next++
	}
	return depth + 1
}

// copyLeaves appends the selected parent leaves in [begin, end) as leaf
// kids of c.
func (l *subLinker) copyLeaves(c *Cell, begin, end int) {
	for li := begin; li < end; li++ {
		leaf := l.parent.leaves[li]
		if !selected(l.parent.src, leaf.Body, l.flag) {
			continue
		}
		l.out.leaves[l.nextLeaf] = leaf
		l.nextLeaf++
		c.NLeaves++
	}
}
