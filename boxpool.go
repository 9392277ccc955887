package octree

import (
	"math"
	"slices"
)

// boxPool is a bump allocator for boxes. Boxes are referred to by index,
// so growing the backing slice never invalidates a reference; *box values
// obtained from at must not be held across a call to alloc.
type boxPool struct {
	boxes []box
	ndots int // total dots the tree will receive
}

func newBoxPool(ndots int) *boxPool {
	return &boxPool{
		boxes: make([]box, 0, 1+ndots/4),
		ndots: ndots,
	}
}

// alloc returns the index of a fresh branch box. nsofar is the number of
// dots inserted so far and drives the growth estimate.
func (p *boxPool) alloc(nsofar int) int32 {
	if len(p.boxes) == cap(p.boxes) {
		p.boxes = slices.Grow(p.boxes, p.growth(nsofar))
	}
	p.boxes = append(p.boxes, box{dots: -1})
	return int32(len(p.boxes) - 1)
}

// growth estimates how many more boxes the remaining dots will need by
// extrapolating the boxes-per-dot ratio seen so far, plus some slack.
func (p *boxPool) growth(nsofar int) int {
	if nsofar < 1 {
		nsofar = 1
	}
	x := float64(len(p.boxes)) * (float64(p.ndots)/float64(nsofar) - 1)
	if x < 0 {
		x = 0
	}
	return int(x + 4*math.Sqrt(x) + 16)
}

func (p *boxPool) at(i int32) *box { return &p.boxes[i] }
func (p *boxPool) len() int        { return len(p.boxes) }
