package storage

import "github.com/flynnfc/gamgeedb/internal/composite"

// Cell is a single named value: the smallest unit the engine stores. Cells
// are immutable once constructed; newer versions of the same name are
// written as distinct cells and reconciled by the merge layer.
type Cell struct {
	Name  composite.Name
	Value []byte

	// Timestamp is the write time in microseconds, used by the merge
	// layer to pick a winner among same-named cells.
	Timestamp int64

	// ExpiresAt is the absolute time in microseconds after which the cell
	// no longer exists for readers. Zero means the cell never expires.
	ExpiresAt int64
}

// Live reports whether the cell is visible at the given evaluation time.
func (c Cell) Live(now int64) bool {
	return c.ExpiresAt == 0 || now < c.ExpiresAt
}
