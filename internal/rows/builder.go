package rows

import (
	"github.com/flynnfc/gamgeedb/internal/composite"
	"github.com/flynnfc/gamgeedb/internal/storage"
)

// CellIterator is the pull-based cell sequence the builders consume: already
// merged, ascending in the table's cell order, too large to assume it fits
// in memory. Next reports false once the sequence is exhausted.
type CellIterator interface {
	Next() (storage.Cell, bool)
}

// RowIterator is the lazy logical-row sequence a builder produces. A single
// forward pass over the cells: not restartable, finite iff the input is, and
// safe to abandon early.
type RowIterator interface {
	Next() (*Row, bool)
}

// SliceCells adapts an in-memory cell slice to a CellIterator.
func SliceCells(cells []storage.Cell) CellIterator {
	return &sliceIterator{cells: cells}
}

type sliceIterator struct {
	cells []storage.Cell
	pos   int
}

func (it *sliceIterator) Next() (storage.Cell, bool) {
	if it.pos >= len(it.cells) {
		return storage.Cell{}, false
	}
	c := it.cells[it.pos]
	it.pos++
	return c, true
}

// Group selects the builder matching the type's layout. The choice is a
// schema-level decision; callers that already know their layout can use
// Dense or Sparse directly.
func Group(typ *composite.Type, cells CellIterator, now int64) RowIterator {
	if typ.IsDense() {
		return Dense(typ, cells, now)
	}
	return Sparse(typ, cells, now)
}

// Dense builds logical rows for dense layouts: every live cell is its own
// one-column row, and expired cells disappear entirely.
func Dense(typ *composite.Type, cells CellIterator, now int64) RowIterator {
	return &denseIterator{typ: typ, cells: cells, now: now}
}

type denseIterator struct {
	typ   *composite.Type
	cells CellIterator
	now   int64
}

func (it *denseIterator) Next() (*Row, bool) {
	for {
		cell, ok := it.cells.Next()
		if !ok {
			return nil, false
		}
		if !cell.Live(it.now) {
			continue
		}
		return newDenseRow(it.typ.ClusteringPrefix(cell.Name), cell), true
	}
}

// Sparse builds logical rows for sparse layouts: a streaming group-by over
// the row-identifying prefix. Scattered cells of one row fold into a single
// accumulator, which is emitted when the first cell of the next row is seen
// (one row of look-ahead) or when the input ends.
func Sparse(typ *composite.Type, cells CellIterator, now int64) RowIterator {
	return &sparseIterator{typ: typ, cells: cells, now: now}
}

type sparseIterator struct {
	typ   *composite.Type
	cells CellIterator
	now   int64

	previous composite.Name
	open     *Row
}

func (it *sparseIterator) Next() (*Row, bool) {
	for {
		cell, ok := it.cells.Next()
		if !ok {
			break
		}
		if !cell.Live(it.now) {
			continue
		}

		var completed *Row
		name := cell.Name
		if it.open == nil || !it.typ.SameRow(name, it.previous) {
			completed = it.open
			it.open = newSparseRow(it.typ.ClusteringPrefix(name))
		}
		it.open.add(it.typ, cell)
		it.previous = name

		if completed != nil {
			return completed, true
		}
	}
	if it.open != nil {
		completed := it.open
		it.open = nil
		return completed, true
	}
	return nil, false
}
