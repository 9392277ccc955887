package octree

import "github.com/golang/geo/r3"

// nsub is the number of octants of a box.
const nsub = 8

type slotKind uint8

const (
	slotEmpty slotKind = iota
	slotDot
	slotBox
)

// slot is one octant of a box: empty, a single dot, or a child box.
// idx indexes the dot slice or the box pool depending on kind.
type slot struct {
	kind slotKind
	idx  int32
}

// box is a cube of the build-time tree. Its half-size is looked up from
// the builder's radius table by level.
//
// A box is a twig while dots >= 0: it then holds an unsorted list of up to
// Ncrit dots and no occupied octants. Once split it is a branch (dots == -1)
// and stays one. The root starts out as an empty branch.
type box struct {
	center r3.Vector
	level  uint8
	oct    [nsub]slot
	number int32 // dots anywhere below this box
	dots   int32 // head of the twig list, -1 for a branch
}

func (b *box) isTwig() bool { return b.dots >= 0 }

// octant returns which octant of the cube centred on c contains p.
// Bit 0 is x, bit 1 is y, bit 2 is z; a set bit means p >= c on that axis.
func octant(c, p r3.Vector) int {
	o := 0
	if p.X >= c.X {
		o |= 1
	}
	if p.Y >= c.Y {
		o |= 2
	}
	if p.Z >= c.Z {
		o |= 4
	}
	return o
}

// octantCenter returns the center of octant o of the cube centred on c,
// where r is the child half-size.
func octantCenter(c r3.Vector, o int, r float64) r3.Vector {
	shift := func(x float64, bit int) float64 {
		if o&bit != 0 {
			return x + r
		}
		return x - r
	}
	return r3.Vector{X: shift(c.X, 1), Y: shift(c.Y, 2), Z: shift(c.Z, 4)}
}
