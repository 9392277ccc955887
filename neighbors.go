package octree

import (
	"cmp"
	"container/heap"
	"math"
	"slices"

	"github.com/golang/geo/r3"
)

// Neighbour queries prune by cell cubes, so they are exact as long as
// every leaf lies inside its cell. That holds after Build and Rebuild; after
// Reuse, leaves that moved out of their cells may be missed.

// Neighbor is one result of a neighbour query.
type Neighbor struct {
	Leaf int     // index into the leaf array
	Body int     // index into the body source
	Dist float64 // distance from the query point
}

// Nearest returns the k leaves nearest to q, closest first. Fewer are
// returned when the tree holds fewer than k leaves.
func Nearest(r Reader, q r3.Vector, k int) []Neighbor {
	cells := r.Cells()
	if k <= 0 || len(cells) == 0 {
		return nil
	}
	s := &knnSearch{r: r, cells: cells, leaves: r.Leaves(), q: q, k: k}
	heap.Init(&s.h)
	s.search(0)

	out := make([]Neighbor, s.h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		item := heap.Pop(&s.h).(knnItem)
		l := s.leaves[item.leaf]
		out[i] = Neighbor{Leaf: item.leaf, Body: l.Body, Dist: math.Sqrt(item.d2)}
	}
	return out
}

// Within returns every leaf no further than radius from q, closest first.
func Within(r Reader, q r3.Vector, radius float64) []Neighbor {
	cells, leaves := r.Cells(), r.Leaves()
	if radius < 0 || len(cells) == 0 {
		return nil
	}
	r2 := radius * radius
	var out []Neighbor
	add := func(begin, end int) {
		for li := begin; li < end; li++ {
			if d2 := leaves[li].Pos.Sub(q).Norm2(); d2 <= r2 {
				out = append(out, Neighbor{Leaf: li, Body: leaves[li].Body, Dist: math.Sqrt(d2)})
			}
		}
	}
	Walk(r, func(_ int, c Cell) bool {
		rad := r.Radius(int(c.Level))
		if cubeMinDist2(c.Center, rad, q) > r2 {
			return false
		}
		if cubeMaxDist2(c.Center, rad, q) <= r2 {
			add(c.Leaves())
			return false
		}
		add(c.LeafKids())
		return true
	})
	slices.SortFunc(out, func(a, b Neighbor) int {
		return cmp.Or(cmp.Compare(a.Dist, b.Dist), cmp.Compare(a.Leaf, b.Leaf))
	})
	return out
}

type knnSearch struct {
	r      Reader
	cells  []Cell
	leaves []Leaf
	q      r3.Vector
	k      int
	h      knnHeap
}

// search visits cell ci, nearer cell kids first, skipping any kid whose
// cube cannot hold anything closer than the current k-th neighbour.
func (s *knnSearch) search(ci int) {
	c := s.cells[ci]
	lb, le := c.LeafKids()
	for li := lb; li < le; li++ {
		d2 := s.leaves[li].Pos.Sub(s.q).Norm2()
		if s.h.Len() < s.k {
			heap.Push(&s.h, knnItem{leaf: li, d2: d2})
		} else if d2 < s.h[0].d2 {
			s.h[0] = knnItem{leaf: li, d2: d2}
			heap.Fix(&s.h, 0)
		}
	}

	cb, ce := c.CellKids()
	if cb == ce {
		return
	}
	var kids [nsub]knnItem
	n := 0
	for k := cb; k < ce; k++ {
		kid := s.cells[k]
		kids[n] = knnItem{leaf: k, d2: cubeMinDist2(kid.Center, s.r.Radius(int(kid.Level)), s.q)}
		n++
	}
	slices.SortFunc(kids[:n], func(a, b knnItem) int { return cmp.Compare(a.d2, b.d2) })
	for _, kid := range kids[:n] {
		if s.h.Len() == s.k && kid.d2 >= s.h[0].d2 {
			break
		}
		s.search(kid.leaf)
	}
}

// cubeMinDist2 is the squared distance from q to the nearest point of the
// cube centred on c with half-size rad; 0 when q is inside.
func cubeMinDist2(c r3.Vector, rad float64, q r3.Vector) float64 {
	d := q.Sub(c).Abs()
	x := math.Max(d.X-rad, 0)
	y := math.Max(d.Y-rad, 0)
	z := math.Max(d.Z-rad, 0)
	return x*x + y*y + z*z
}

// cubeMaxDist2 is the squared distance from q to the farthest corner of
// the cube.
func cubeMaxDist2(c r3.Vector, rad float64, q r3.Vector) float64 {
	d := q.Sub(c).Abs()
	return r3.Vector{X: d.X + rad, Y: d.Y + rad, Z: d.Z + rad}.Norm2()
}

// knnItem is a candidate in a query: a leaf (or, while ordering cell kids,
// a cell) and its squared distance.
type knnItem struct {
	leaf int
	d2   float64
}

// knnHeap is a max-heap of knnItem (largest distance on top) used as a
// bounded priority queue for k-nearest queries.
type knnHeap []knnItem

func (h knnHeap) Len() int            { return len(h) }
func (h knnHeap) Less(i, j int) bool  { return h[i].d2 > h[j].d2 }
func (h knnHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *knnHeap) Push(x interface{}) { *h = append(*h, x.(knnItem)) }
func (h *knnHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
