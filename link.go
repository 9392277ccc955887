package octree

// linker maps a finished box-dot tree onto cell and leaf arrays.
// Cells and leaves are handed out in depth-first order. The child cells
// of a cell are reserved as one block before any of them is filled, so
// they are contiguous. A cell's own leaves are written before those of its
// descendants, so every cell's leaves form one contiguous run as well.
type linker struct {
	t        *boxDotTree
	cells    []Cell
	leaves   []Leaf
	nextCell int
	nextLeaf int
}

// link lays out the tree. The arrays are sized exactly from the box and
// dot counts. depth is the highest cell level, 0 for a lone root.
func (t *boxDotTree) link() (cells []Cell, leaves []Leaf, depth int) {
	l := &linker{
		t:        t,
		cells:    make([]Cell, t.pool.len()),
		leaves:   make([]Leaf, len(t.dots)),
		nextCell: 1,
	}
	var levels int
	if t.ncrit > 1 {
		levels = l.linkCellsN(0, 0, 0)
	} else {
		levels = l.linkCells1(0, 0, 0)
	}
	return l.cells, l.leaves, levels - 1
}

// linkCells1 links box bi into cell ci for trees without twigs.
// It returns the number of levels from ci down to its deepest descendant.
func (l *linker) linkCells1(bi int32, o int, ci int) int {
	b := l.t.pool.at(bi)
	c := l.initCell(b, o, ci)
	nbox := l.linkDotSlots(b, c)
	return l.linkBoxSlots(b, c, nbox, l.linkCells1)
}

// linkCellsN links box bi into cell ci, draining twig lists directly into
// leaves.
func (l *linker) linkCellsN(bi int32, o int, ci int) int {
	b := l.t.pool.at(bi)
	c := l.initCell(b, o, ci)
	if b.isTwig() {
		for di := b.dots; di >= 0; di = l.t.dots[di].next {
			l.setLeaf(di)
		}
		c.NLeaves = int(b.number)
		return 1
	}
	nbox := l.linkDotSlots(b, c)
	return l.linkBoxSlots(b, c, nbox, l.linkCellsN)
}

func (l *linker) initCell(b *box, o int, ci int) *Cell {
	c := &l.cells[ci]
	*c = Cell{
		Level:     b.level,
		Octant:    uint8(o),
		Center:    b.center,
		Number:    int(b.number),
		FirstLeaf: l.nextLeaf,
		FirstCell: -1,
	}
	return c
}

// linkDotSlots writes the dots held directly in b's octants as leaf kids
// of c, and returns how many octants hold boxes.
func (l *linker) linkDotSlots(b *box, c *Cell) int {
	nbox := 0
	for _, s := range b.oct {
		switch s.kind {
		case slotDot:
			l.setLeaf(s.idx)
			c.NLeaves++
		case slotBox:
			nbox++
		}
	}
	return nbox
}

// linkBoxSlots reserves nbox contiguous cells for b's child boxes and links
// each with rec, in octant order.
func (l *linker) linkBoxSlots(b *box, c *Cell, nbox int, rec func(int32, int, int) int) int {
	if nbox == 0 {
		return 1
	}
	next := l.nextCell
	c.FirstCell = next
	c.NCells = nbox
	l.nextCell += nbox

	depth := 0
	for o, s := range b.oct {
		if s.kind != slotBox {
			continue
		}
		depth = max(depth, rec(s.idx, o, next))
		next++
	}
	return depth + 1
}

func (l *linker) setLeaf(di int32) {
	d := &l.t.dots[di]
	l.leaves[l.nextLeaf] = Leaf{Pos: d.pos, Body: int(d.body)}
	l.nextLeaf++
}
