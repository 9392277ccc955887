package octree

import "github.com/golang/geo/r3"

// Flag is a per-body bit word used to select bodies for a tree or sub-tree.
type Flag uint32

// BodySource is the read interface the tree needs from body storage.
// Indices run from 0 to Len()-1 and must stay stable between a build and
// any later Reuse or Rebuild of the same tree.
type BodySource interface {
	// Len returns the number of bodies.
	Len() int

	// Pos returns the position of body i.
	Pos(i int) r3.Vector

	// Flags returns the flag word of body i. Only consulted when HasFlags
	// reports true.
	Flags(i int) Flag

	// HasFlags reports whether the source carries per-body flags at all.
	HasFlags() bool
}

// Bodies is a slice-backed BodySource. It is the simplest body storage
// that satisfies the tree's needs: positions and an optional flag word.
type Bodies struct {
	pos   []r3.Vector
	flags []Flag
}

// NewBodies returns a Bodies holding a copy of pos and no flags.
func NewBodies(pos []r3.Vector) *Bodies {
	p := make([]r3.Vector, len(pos))
	copy(p, pos)
	return &Bodies{pos: p}
}

// NewFlaggedBodies returns a Bodies holding copies of pos and flags.
// flags must be the same length as pos.
func NewFlaggedBodies(pos []r3.Vector, flags []Flag) *Bodies {
	b := NewBodies(pos)
	b.flags = make([]Flag, len(pos))
	copy(b.flags, flags)
	return b
}

// Len returns the number of bodies.
func (b *Bodies) Len() int { return len(b.pos) }

// Pos returns the position of body i.
func (b *Bodies) Pos(i int) r3.Vector { return b.pos[i] }

// HasFlags reports whether flag words are stored. Without them every body
// is selected regardless of the flag mask.
func (b *Bodies) HasFlags() bool { return b.flags != nil }

// SetPos moves body i to p.
func (b *Bodies) SetPos(i int, p r3.Vector) { b.pos[i] = p }

// Flags returns the flag word of body i, or 0 when no flags are stored.
func (b *Bodies) Flags(i int) Flag {
	if b.flags == nil {
		return 0
	}
	return b.flags[i]
}

// SetFlags sets the flag word of body i, allocating flag storage on first use.
func (b *Bodies) SetFlags(i int, f Flag) {
	if b.flags == nil {
		b.flags = make([]Flag, len(b.pos))
	}
	b.flags[i] = f
}

// AddFlags ORs f into the flag word of every body.
func (b *Bodies) AddFlags(f Flag) {
	for i := range b.pos {
		b.SetFlags(i, b.Flags(i)|f)
	}
}

// Translate shifts every position by d.
func (b *Bodies) Translate(d r3.Vector) {
	for i := range b.pos {
		b.pos[i] = b.pos[i].Add(d)
	}
}

// selected reports whether body i passes the selection mask.
func selected(src BodySource, i int, mask Flag) bool {
	return mask == 0 || !src.HasFlags() || src.Flags(i)&mask != 0
}
