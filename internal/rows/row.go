package rows

import (
	"github.com/flynnfc/gamgeedb/internal/composite"
	"github.com/flynnfc/gamgeedb/internal/storage"
)

// Row is one logical query-level row, reconstructed from the live cells that
// share a row-identifying prefix. Rows are built fresh per read and handed
// off to the consumer; they are never reused.
type Row struct {
	clustering  [][]byte
	scalars     map[string]storage.Cell
	collections map[string][]storage.Cell

	// dense rows are a single cell whose column identity is implicit from
	// schema position; Column answers with it for any identifier.
	dense *storage.Cell
}

func newSparseRow(clustering [][]byte) *Row {
	return &Row{clustering: clustering}
}

func newDenseRow(clustering [][]byte, cell storage.Cell) *Row {
	return &Row{clustering: clustering, dense: &cell}
}

// ClusteringColumn returns the i-th clustering value of the row.
func (r *Row) ClusteringColumn(i int) []byte {
	return r.clustering[i]
}

// ClusteringSize returns the number of clustering values the row carries.
func (r *Row) ClusteringSize() int {
	return len(r.clustering)
}

// Column returns the scalar cell stored under the given column identifier.
func (r *Row) Column(id []byte) (storage.Cell, bool) {
	if r.dense != nil {
		return *r.dense, true
	}
	c, ok := r.scalars[string(id)]
	return c, ok
}

// Collection returns the element cells of a collection column, in element
// order. Nil when the row has no such collection.
func (r *Row) Collection(id []byte) []storage.Cell {
	return r.collections[string(id)]
}

// add folds one live cell into the accumulator. Collection cells append to
// their column's element list; scalar cells overwrite, last write wins
// (distinct identifiers are expected absent schema corruption).
func (r *Row) add(typ *composite.Type, cell storage.Cell) {
	id := typ.ColumnID(cell.Name)
	if _, ok := typ.CollectionElement(cell.Name); ok {
		if r.collections == nil {
			r.collections = make(map[string][]storage.Cell)
		}
		r.collections[string(id)] = append(r.collections[string(id)], cell)
		return
	}
	if r.scalars == nil {
		r.scalars = make(map[string]storage.Cell)
	}
	r.scalars[string(id)] = cell
}
