package octree

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// dot is the build-time stand-in for a body: just its position and the
// body index, plus a link for the twig lists of the box-dot tree.
type dot struct {
	pos  r3.Vector
	body int32
	next int32 // next dot in a twig list, -1 at the end
}

// extent is the coordinate-wise range and mean of a dot set.
type extent struct {
	min, max, mean r3.Vector
}

// collectDots makes one dot per body selected by mask, in source order.
func collectDots(src BodySource, mask Flag) ([]dot, extent, error) {
	n := src.Len()
	dots := make([]dot, 0, n)
	for i := 0; i < n; i++ {
		if !selected(src, i, mask) {
			continue
		}
		p := src.Pos(i)
		if !finite(p) {
			return nil, extent{}, errors.Wrapf(ErrNonFinitePosition, "body %d at %v", i, p)
		}
		dots = append(dots, dot{pos: p, body: int32(i), next: -1})
	}
	return dots, dotExtent(dots), nil
}

// collectLeafOrder makes one dot per existing leaf, in leaf order, with
// positions read fresh from the source. Successive dots then tend to fall
// into the same boxes, which makes insertion markedly cheaper.
func collectLeafOrder(src BodySource, leaves []Leaf) ([]dot, extent, error) {
	dots := make([]dot, len(leaves))
	for i, l := range leaves {
		p := src.Pos(l.Body)
		if !finite(p) {
			return nil, extent{}, errors.Wrapf(ErrNonFinitePosition, "body %d at %v", l.Body, p)
		}
		dots[i] = dot{pos: p, body: int32(l.Body), next: -1}
	}
	return dots, dotExtent(dots), nil
}

func dotExtent(dots []dot) extent {
	if len(dots) == 0 {
		return extent{}
	}
	e := extent{min: dots[0].pos, max: dots[0].pos}
	// mean accumulates p/n, which stays finite for finite input.
	inv := 1 / float64(len(dots))
	for i := range dots {
		p := dots[i].pos
		e.min = r3.Vector{X: math.Min(e.min.X, p.X), Y: math.Min(e.min.Y, p.Y), Z: math.Min(e.min.Z, p.Z)}
		e.max = r3.Vector{X: math.Max(e.max.X, p.X), Y: math.Max(e.max.Y, p.Y), Z: math.Max(e.max.Z, p.Z)}
		e.mean = e.mean.Add(p.Mul(inv))
	}
	return e
}

// rootCenter returns fixed if given, otherwise the mean rounded to the
// nearest integer grid point (ties toward +Inf).
func rootCenter(fixed *r3.Vector, e extent) r3.Vector {
	if fixed != nil {
		return *fixed
	}
	return r3.Vector{
		X: math.Floor(e.mean.X + 0.5),
		Y: math.Floor(e.mean.Y + 0.5),
		Z: math.Floor(e.mean.Z + 0.5),
	}
}

// rootRadius returns the half-size of the smallest power-of-two cube
// centred on c that strictly contains both e.min and e.max. The result is
// +Inf when no such cube is representable.
func rootRadius(c r3.Vector, e extent) float64 {
	d := 0.0
	for _, v := range [][2]float64{
		{e.min.X - c.X, e.max.X - c.X},
		{e.min.Y - c.Y, e.max.Y - c.Y},
		{e.min.Z - c.Z, e.max.Z - c.Z},
	} {
		d = math.Max(d, math.Max(math.Abs(v[0]), math.Abs(v[1])))
	}
	switch {
	case d == 0:
		return 1
	case math.IsInf(d, 0):
		return d
	}
	// d = frac * 2^exp with frac in [0.5, 1), so 2^exp > d >= 2^(exp-1).
	_, exp := math.Frexp(d)
	return math.Ldexp(1, exp)
}

// outside returns the index of the first dot not inside b, or -1.
func (b *Bounds) outside(dots []dot) int {
	for i := range dots {
		p := dots[i].pos
		if p.X < b.Min.X || p.Y < b.Min.Y || p.Z < b.Min.Z ||
			p.X > b.Max.X || p.Y > b.Max.Y || p.Z > b.Max.Z {
			return i
		}
	}
	return -1
}

func finite(v r3.Vector) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsNaN(v.Z) &&
		!math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0) && !math.IsInf(v.Z, 0)
}

// rootFits reports whether the cube centred on c with half-size r has
// finite bounds, so that no cell center below it can overflow.
func rootFits(c r3.Vector, r float64) bool {
	d := r3.Vector{X: r, Y: r, Z: r}
	return finite(c.Add(d)) && finite(c.Sub(d))
}
