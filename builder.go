package octree

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// boxDotTree is the first, throw-away stage of a build: dots are added one
// at a time to a tree of boxes. It records everything link needs to lay
// the result out as contiguous cell and leaf arrays.
type boxDotTree struct {
	ncrit    int
	maxDepth int
	radii    []float64 // radii[l] is the half-size of a box at level l
	pool     *boxPool
	dots     []dot
}

// newBoxDotTree prepares an empty root box centred on center with
// half-size radius. It does not insert any dots.
func newBoxDotTree(dots []dot, ncrit, maxDepth int, center r3.Vector, radius float64) *boxDotTree {
	radii := make([]float64, maxDepth+1)
	radii[0] = radius
	for l := 0; l < maxDepth; l++ {
		radii[l+1] = 0.5 * radii[l]
	}
	t := &boxDotTree{
		ncrit:    ncrit,
		maxDepth: maxDepth,
		radii:    radii,
		pool:     newBoxPool(len(dots)),
		dots:     dots,
	}
	root := t.pool.alloc(1)
	t.pool.at(root).center = center
	return t
}

// build inserts every dot, in slice order, starting from the root.
func (t *boxDotTree) build() error {
	insert := t.addDotN
	if t.ncrit == 1 {
		insert = t.addDot1
	}
	for i := range t.dots {
		if err := insert(int32(i), i); err != nil {
			return err
		}
	}
	return nil
}

// makeSubBox allocates an empty box for octant o of box parent.
func (t *boxDotTree) makeSubBox(parent int32, o int, nsofar int) (int32, error) {
	p := t.pool.at(parent)
	level := int(p.level) + 1
	if level > t.maxDepth {
		return -1, errors.Wrapf(ErrMaxDepthExceeded,
			"depth bound %d reached (presumably more than Ncrit=%d bodies share a position)",
			t.maxDepth, t.ncrit)
	}
	center := octantCenter(p.center, o, t.radii[level])

	idx := t.pool.alloc(nsofar)
	b := t.pool.at(idx)
	b.level = uint8(level)
	b.center = center
	return idx, nil
}

// addDot1 inserts dot di keeping at most one dot per octant slot.
func (t *boxDotTree) addDot1(di int32, nsofar int) error {
	pos := t.dots[di].pos
	for p := int32(0); ; {
		b := t.pool.at(p)
		o := octant(b.center, pos)
		b.number++
		s := b.oct[o]
		switch s.kind {
		case slotEmpty:
			b.oct[o] = slot{kind: slotDot, idx: di}
			return nil
		case slotDot:
			sub, err := t.makeSubBox(p, o, nsofar)
			if err != nil {
				return err
			}
			sb := t.pool.at(sub)
			sb.oct[octant(sb.center, t.dots[s.idx].pos)] = slot{kind: slotDot, idx: s.idx}
			sb.number = 1
			t.pool.at(p).oct[o] = slot{kind: slotBox, idx: sub}
			p = sub
		case slotBox:
			p = s.idx
		}
	}
}

// addDotN inserts dot di letting twigs collect up to ncrit dots before
// they are split.
func (t *boxDotTree) addDotN(di int32, nsofar int) error {
	pos := t.dots[di].pos
	for p := int32(0); ; {
		b := t.pool.at(p)
		if b.isTwig() {
			t.dots[di].next = b.dots
			b.dots = di
			b.number++
			if int(b.number) > t.ncrit {
				return t.splitBox(p, nsofar)
			}
			return nil
		}
		o := octant(b.center, pos)
		b.number++
		s := b.oct[o]
		switch s.kind {
		case slotEmpty:
			b.oct[o] = slot{kind: slotDot, idx: di}
			return nil
		case slotDot:
			sub, err := t.makeSubBox(p, o, nsofar)
			if err != nil {
				return err
			}
			sb := t.pool.at(sub)
			t.dots[s.idx].next = -1
			sb.dots = s.idx
			sb.number = 1
			t.pool.at(p).oct[o] = slot{kind: slotBox, idx: sub}
			p = sub
		case slotBox:
			p = s.idx
		}
	}
}

// splitBox turns twig p into a branch. Its dots are sorted into octants:
// a lone dot stays in its slot, several dots become a new twig. When all
// dots land in one octant the new twig is split in turn.
func (t *boxDotTree) splitBox(p int32, nsofar int) error {
	for {
		var (
			heads  [nsub]int32
			counts [nsub]int32
		)
		for o := range heads {
			heads[o] = -1
		}

		b := t.pool.at(p)
		for di := b.dots; di >= 0; {
			d := &t.dots[di]
			next := d.next
			o := octant(b.center, d.pos)
			d.next = heads[o]
			heads[o] = di
			counts[o]++
			di = next
		}
		b.dots = -1

		occupied, last := 0, int32(-1)
		for o := 0; o < nsub; o++ {
			switch {
			case counts[o] == 0:
				continue
			case counts[o] == 1:
				t.pool.at(p).oct[o] = slot{kind: slotDot, idx: heads[o]}
			default:
				sub, err := t.makeSubBox(p, o, nsofar)
				if err != nil {
					return err
				}
				sb := t.pool.at(sub)
				sb.dots = heads[o]
				sb.number = counts[o]
				t.pool.at(p).oct[o] = slot{kind: slotBox, idx: sub}
				last = sub
			}
			occupied++
		}
		if occupied != 1 {
			return nil
		}
		p = last
	}
}
