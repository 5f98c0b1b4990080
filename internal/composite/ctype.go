package composite

import "fmt"

// Type describes the composite-name schema of one table: how many clustering
// components a name carries, which byte ordering applies at each position,
// and whether names additionally carry a column identifier (sparse layout)
// and a collection element tag.
//
// A Type is built once per schema and is immutable; it is safe for
// unsynchronized concurrent use.
type Type struct {
	clustering  []Comparator
	dense       bool
	collections bool
}

// NewDenseType builds the name type for a dense layout: every component is a
// clustering value and a complete name is exactly the clustering tuple. The
// column identity is implicit from schema position.
func NewDenseType(clustering []Comparator) *Type {
	return &Type{clustering: clustering, dense: true}
}

// NewSparseType builds the name type for a sparse layout: a complete name is
// the clustering tuple followed by a column identifier, and, when
// collections is set, optionally a collection element tag after that.
func NewSparseType(clustering []Comparator, collections bool) *Type {
	return &Type{clustering: clustering, dense: false, collections: collections}
}

// ClusteringSize returns the number of leading components that identify the
// logical row a cell belongs to.
func (t *Type) ClusteringSize() int {
	return len(t.clustering)
}

// Arity returns the maximum number of components a name of this type may
// carry.
func (t *Type) Arity() int {
	if t.dense {
		return len(t.clustering)
	}
	if t.collections {
		return len(t.clustering) + 2
	}
	return len(t.clustering) + 1
}

// IsDense reports whether this type stores one column per physical cell.
func (t *Type) IsDense() bool {
	return t.dense
}

// SupportsCollections reports whether names of this type may carry a
// collection element tag.
func (t *Type) SupportsCollections() bool {
	return !t.dense && t.collections
}

// comparatorAt returns the byte ordering for component position i. Trailing
// column-identifier and element components always compare bytewise.
func (t *Type) comparatorAt(i int) Comparator {
	if i < len(t.clustering) {
		return t.clustering[i]
	}
	return Bytewise
}

// Compare imposes the total order over names of this type: component-wise up
// to the common length, then a strictly shorter name sorts before the names
// extending it unless its end-of-component marker says otherwise. Names of
// equal length and content resolve by marker (Start < None < End).
func (t *Type) Compare(a, b Name) int {
	n := a.Size()
	if b.Size() < n {
		n = b.Size()
	}
	for i := 0; i < n; i++ {
		if c := t.comparatorAt(i).Compare(a.Component(i), b.Component(i)); c != 0 {
			return c
		}
	}
	if a.Size() < b.Size() {
		if a.EOC() == EOCEnd {
			return 1
		}
		return -1
	}
	if a.Size() > b.Size() {
		if b.EOC() == EOCEnd {
			return -1
		}
		return 1
	}
	switch {
	case a.EOC() < b.EOC():
		return -1
	case a.EOC() > b.EOC():
		return 1
	default:
		return 0
	}
}

// Prefix builds an incomplete name from the leading components. Prefixes
// identify ranges of cells and are used for row-identifying bounds and range
// tombstone endpoints.
func (t *Type) Prefix(components ...[]byte) (Name, error) {
	if len(components) > t.Arity() {
		return Name{}, fmt.Errorf("composite: prefix has %d components, type arity is %d", len(components), t.Arity())
	}
	return Name{components: components}, nil
}

// CellName builds a complete name for a dense type from its clustering
// values. Sparse types build cell names through ColumnCell instead.
func (t *Type) CellName(clustering ...[]byte) (Name, error) {
	if !t.dense {
		return Name{}, fmt.Errorf("composite: sparse cell names carry a column identifier: %w", ErrUnsupportedOperation)
	}
	if len(clustering) != len(t.clustering) {
		return Name{}, fmt.Errorf("composite: dense cell name needs %d components, got %d", len(t.clustering), len(clustering))
	}
	return Name{components: clustering, complete: true}, nil
}

// ColumnCell builds a complete sparse name from a full clustering prefix and
// a column identifier.
func (t *Type) ColumnCell(prefix Name, columnID []byte) (Name, error) {
	if t.dense {
		return Name{}, fmt.Errorf("composite: dense names have no column identifier: %w", ErrUnsupportedOperation)
	}
	if prefix.Size() != len(t.clustering) {
		return Name{}, fmt.Errorf("composite: cell prefix needs %d clustering components, got %d", len(t.clustering), prefix.Size())
	}
	components := make([][]byte, prefix.Size()+1)
	copy(components, prefix.components)
	components[prefix.Size()] = columnID
	return Name{components: components, complete: true}, nil
}

// CollectionCell builds a complete sparse name addressing one element of a
// collection column.
func (t *Type) CollectionCell(prefix Name, columnID, element []byte) (Name, error) {
	if !t.SupportsCollections() {
		return Name{}, fmt.Errorf("composite: type has no collection support: %w", ErrUnsupportedOperation)
	}
	if prefix.Size() != len(t.clustering) {
		return Name{}, fmt.Errorf("composite: cell prefix needs %d clustering components, got %d", len(t.clustering), prefix.Size())
	}
	components := make([][]byte, prefix.Size()+2)
	copy(components, prefix.components)
	components[prefix.Size()] = columnID
	components[prefix.Size()+1] = element
	return Name{components: components, complete: true}, nil
}

// RowMarker builds the cell name that asserts a sparse row's existence even
// when all of its regular columns are absent. Dense rows need no marker.
func (t *Type) RowMarker(prefix Name) (Name, error) {
	if t.dense {
		return Name{}, fmt.Errorf("composite: dense layouts have no row marker: %w", ErrUnsupportedOperation)
	}
	return t.ColumnCell(prefix, nil)
}

// ClusteringPrefix returns the components that identify the logical row the
// name belongs to. The returned slice aliases the name's components.
func (t *Type) ClusteringPrefix(n Name) [][]byte {
	k := len(t.clustering)
	if n.Size() < k {
		k = n.Size()
	}
	return n.components[:k]
}

// ColumnID returns the column identifier of a sparse cell name, or nil for
// dense names and bare prefixes.
func (t *Type) ColumnID(n Name) []byte {
	if t.dense || n.Size() <= len(t.clustering) {
		return nil
	}
	return n.Component(len(t.clustering))
}

// CollectionElement returns the element tag of a collection cell name, if
// present.
func (t *Type) CollectionElement(n Name) ([]byte, bool) {
	if !t.SupportsCollections() || n.Size() <= len(t.clustering)+1 {
		return nil, false
	}
	return n.Component(len(t.clustering) + 1), true
}

// SameRow reports whether two names share the same row-identifying prefix,
// comparing only the clustering components under their declared orderings.
func (t *Type) SameRow(a, b Name) bool {
	if a.Size() < len(t.clustering) || b.Size() < len(t.clustering) {
		return false
	}
	for i := 0; i < len(t.clustering); i++ {
		if t.clustering[i].Compare(a.Component(i), b.Component(i)) != 0 {
			return false
		}
	}
	return true
}
