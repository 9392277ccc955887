package octree

import "github.com/golang/geo/r3"

// Reader is the read-only view of a finished tree used by force
// evaluators. It exposes everything a tree walk needs and nothing from
// the construction phase.
type Reader interface {
	// Cells returns the cell array; index 0 is the root.
	Cells() []Cell

	// Leaves returns the leaf array.
	Leaves() []Leaf

	// Radius returns the half-size of cells at the given level.
	Radius(level int) float64

	// Depth returns the highest cell level in the tree.
	Depth() int

	// RootCenter returns the center of the root cell.
	RootCenter() r3.Vector

	// RootRadius returns the half-size of the root cell.
	RootRadius() float64
}

var _ Reader = (*Tree)(nil)

// Walk visits the cells of r depth-first, parents before children, in
// the order of the cell array's child blocks. If fn returns false the
// cell's descendants are skipped.
func Walk(r Reader, fn func(index int, c Cell) bool) {
	cells := r.Cells()
	if len(cells) == 0 {
		return
	}
	stack := []int{0}
	for len(stack) > 0 {
		ci := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		c := cells[ci]
		if !fn(ci, c) {
			continue
		}
		b, e := c.CellKids()
		for k := e - 1; k >= b; k-- {
			stack = append(stack, k)
		}
	}
}

// Contains reports whether p lies inside the cube of cell c in r,
// boundaries included.
func Contains(r Reader, c Cell, p r3.Vector) bool {
	rad := r.Radius(int(c.Level))
	d := p.Sub(c.Center).Abs()
	return d.X <= rad && d.Y <= rad && d.Z <= rad
}
