package octree

import "github.com/golang/geo/r3"

// CellFlag holds derived per-cell properties.
type CellFlag uint8

const (
	// CellSubtree marks every cell of a tree made by ExtractSubtree.
	CellSubtree CellFlag = 1 << iota
	// CellCollapsed marks a sub-tree cell that took over the selected
	// leaves of child cells too small to be kept as cells themselves.
	CellCollapsed
)

// Cell is a node of the finished tree.
//
// The leaf kids of a cell are Leaves[FirstLeaf : FirstLeaf+NLeaves] and all
// its descendant leaves are Leaves[FirstLeaf : FirstLeaf+Number]. Its cell
// kids are Cells[FirstCell : FirstCell+NCells]; FirstCell is -1 when there
// are none.
type Cell struct {
	Level     uint8
	Octant    uint8 // octant within the parent cell; 0 for the root
	Flags     CellFlag
	Center    r3.Vector
	Number    int // leaves anywhere below this cell
	FirstLeaf int
	NLeaves   int // direct leaf kids
	FirstCell int
	NCells    int // direct cell kids
}

// Leaves returns the half-open range of all leaves below c.
func (c Cell) Leaves() (begin, end int) { return c.FirstLeaf, c.FirstLeaf + c.Number }

// LeafKids returns the half-open range of c's direct leaf kids.
func (c Cell) LeafKids() (begin, end int) { return c.FirstLeaf, c.FirstLeaf + c.NLeaves }

// CellKids returns the half-open range of c's direct cell kids.
func (c Cell) CellKids() (begin, end int) {
	if c.NCells == 0 {
		return 0, 0
	}
	return c.FirstCell, c.FirstCell + c.NCells
}

// IsTwig reports whether c has no cell kids.
func (c Cell) IsTwig() bool { return c.NCells == 0 }

// Leaf is a body's entry in the finished tree.
type Leaf struct {
	Pos  r3.Vector // position cached at build or Reuse time
	Body int       // index into the tree's BodySource
}
