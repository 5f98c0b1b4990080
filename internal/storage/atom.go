package storage

import "github.com/flynnfc/gamgeedb/internal/composite"

// AtomKind tags the two variants of a storage atom.
type AtomKind uint8

const (
	KindCell AtomKind = iota
	KindRangeTombstone
)

// Atom is a positioned storage unit: either a point cell or an interval
// range tombstone. The tagged form keeps comparator and serializer logic to
// an explicit switch over the kind pair instead of runtime downcasts.
type Atom struct {
	kind      AtomKind
	cell      Cell
	tombstone RangeTombstone
}

// CellAtom wraps a cell as an atom.
func CellAtom(c Cell) Atom {
	return Atom{kind: KindCell, cell: c}
}

// TombstoneAtom wraps a range tombstone as an atom.
func TombstoneAtom(t RangeTombstone) Atom {
	return Atom{kind: KindRangeTombstone, tombstone: t}
}

// Kind returns the variant tag.
func (a Atom) Kind() AtomKind {
	return a.kind
}

// Name returns the position the atom sorts at: the cell's name, or the
// tombstone's opening bound.
func (a Atom) Name() composite.Name {
	if a.kind == KindRangeTombstone {
		return a.tombstone.Min
	}
	return a.cell.Name
}

// Cell returns the cell variant, if that is what the atom holds.
func (a Atom) Cell() (Cell, bool) {
	return a.cell, a.kind == KindCell
}

// RangeTombstone returns the tombstone variant, if that is what the atom
// holds.
func (a Atom) RangeTombstone() (RangeTombstone, bool) {
	return a.tombstone, a.kind == KindRangeTombstone
}
