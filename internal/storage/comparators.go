package storage

import "github.com/flynnfc/gamgeedb/internal/composite"

// Suite derives every ordering the engine needs from one name type. It is
// built once per schema and shared by all writers and readers of that table;
// the derived comparators are pure functions and safe for concurrent use.
//
// Invariant: CompareAtoms restricted to two cells agrees exactly with
// CompareCells, and CompareCellsDesc is the exact inverse of CompareCells.
// Merge and binary-search code assumes the three are interchangeable.
type Suite struct {
	typ *composite.Type
}

// NewSuite binds a comparator suite to a name type.
func NewSuite(typ *composite.Type) *Suite {
	return &Suite{typ: typ}
}

// Type returns the name type the suite was built from.
func (s *Suite) Type() *composite.Type {
	return s.typ
}

// CompareCells orders cells ascending by name. Cells with equal names
// compare equal here: picking a winner among versions of one cell is the
// merge layer's job, not the comparator's.
func (s *Suite) CompareCells(a, b Cell) int {
	return s.typ.Compare(a.Name, b.Name)
}

// CompareCellsDesc orders cells descending by name, for reverse reads.
func (s *Suite) CompareCellsDesc(a, b Cell) int {
	return s.typ.Compare(b.Name, a.Name)
}

// CompareAtoms orders storage atoms by name, with tie-breaking when a range
// tombstone and a cell coincide: the tombstone opens at its position and
// must be observed first, so it sorts strictly before the cell. Two
// tombstones at the same position order by their closing bound, then by
// deletion metadata.
func (s *Suite) CompareAtoms(a, b Atom) int {
	if c := s.typ.Compare(a.Name(), b.Name()); c != 0 {
		return c
	}
	ta, aIsTombstone := a.RangeTombstone()
	tb, bIsTombstone := b.RangeTombstone()
	switch {
	case aIsTombstone && bIsTombstone:
		if c := s.typ.Compare(ta.Max, tb.Max); c != 0 {
			return c
		}
		return ta.Deletion.Compare(tb.Deletion)
	case aIsTombstone:
		return -1
	case bIsTombstone:
		return 1
	default:
		return 0
	}
}
