package storage

import "github.com/flynnfc/gamgeedb/internal/composite"

// Deletion is the metadata stamped on a range tombstone: when the deletion
// happened in write-time order, and the local wall-clock second it was
// applied (used for expiry bookkeeping during garbage collection).
type Deletion struct {
	MarkedAt          int64 // microseconds
	LocalDeletionTime int64 // seconds
}

// Compare orders deletions by write time, then local deletion time. Two
// tombstones with the same span but different deletion metadata must remain
// distinguishable, so this participates in atom ordering as the final
// tie-break.
func (d Deletion) Compare(o Deletion) int {
	switch {
	case d.MarkedAt < o.MarkedAt:
		return -1
	case d.MarkedAt > o.MarkedAt:
		return 1
	case d.LocalDeletionTime < o.LocalDeletionTime:
		return -1
	case d.LocalDeletionTime > o.LocalDeletionTime:
		return 1
	default:
		return 0
	}
}

// Deletes reports whether a cell written at the given timestamp is shadowed
// by this deletion.
func (d Deletion) Deletes(c Cell) bool {
	return c.Timestamp <= d.MarkedAt
}

// RangeTombstone deletes every cell whose name falls inside [Min, Max] and
// whose write timestamp is not newer than the deletion. It is created by the
// write path and treated as an immutable value from then on.
type RangeTombstone struct {
	Min      composite.Name
	Max      composite.Name
	Deletion Deletion
}

// Covers reports whether the tombstone's span contains the name under the
// given type's ordering.
func (t RangeTombstone) Covers(typ *composite.Type, n composite.Name) bool {
	return typ.Compare(t.Min, n) <= 0 && typ.Compare(n, t.Max) <= 0
}
