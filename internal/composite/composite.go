package composite

// EOC positions a prefix name relative to the complete names that extend it.
// A prefix with EOCEnd sorts after every name sharing the prefix, one with
// EOCStart (or EOCNone) before them. Complete cell names always carry
// EOCNone.
type EOC int8

const (
	EOCStart EOC = -1
	EOCNone  EOC = 0
	EOCEnd   EOC = 1
)

// Name is an immutable ordered tuple of byte components identifying a cell
// or a range of cells. A complete name identifies exactly one cell; a prefix
// identifies every name extending it. Construction goes through a Type so
// that arity and layout are validated up front.
type Name struct {
	components [][]byte
	eoc        EOC
	complete   bool
}

// Size returns the number of components present.
func (n Name) Size() int {
	return len(n.components)
}

// Component returns the i-th raw component.
func (n Name) Component(i int) []byte {
	return n.components[i]
}

// EOC returns the end-of-component marker used to position prefix bounds.
func (n Name) EOC() EOC {
	return n.eoc
}

// IsComplete reports whether the name identifies exactly one cell rather
// than a range of cells sharing a prefix.
func (n Name) IsComplete() bool {
	return n.complete
}

// IsEmpty reports whether the name has no components at all. The empty
// prefix spans the whole row.
func (n Name) IsEmpty() bool {
	return len(n.components) == 0
}

// WithEOC returns a copy of the name carrying the given marker. Only
// meaningful for prefixes; the components are shared, not copied.
func (n Name) WithEOC(eoc EOC) Name {
	return Name{components: n.components, eoc: eoc, complete: n.complete}
}
