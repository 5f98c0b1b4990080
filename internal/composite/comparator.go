package composite

import "bytes"

// Comparator defines a total ordering over a single component's byte space.
// A name type holds one comparator per schema position.
type Comparator interface {
	// Compare returns -1, 0, 1 if a is less than, equal to or greater
	// than b respectively. The empty slice is less than any non-empty
	// slice.
	Compare(a, b []byte) int

	// Name identifies the ordering. Data sorted under one comparator
	// must never be read back under a differently named one.
	Name() string
}

// Bytewise is the default component ordering: plain lexicographic byte
// comparison.
var Bytewise Comparator = bytewiseComparator{}

type bytewiseComparator struct{}

func (bytewiseComparator) Compare(a, b []byte) int {
	return bytes.Compare(a, b)
}

func (bytewiseComparator) Name() string {
	return "BytewiseComparator"
}
