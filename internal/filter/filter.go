// Package filter holds the cell-selection filters a read request carries:
// an explicit set of cell names, or a contiguous slice of the name space.
package filter

import (
	"fmt"
	"sort"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/flynnfc/gamgeedb/internal/composite"
)

// Filter selects which cells a read returns.
type Filter interface {
	// Match reports whether a cell with the given name is selected.
	Match(n composite.Name) bool
}

const bloomFalsePositiveRate = 0.01

// Names selects an explicit set of complete cell names. Membership tests go
// through a bloom filter first so the common miss never pays for the binary
// search.
type Names struct {
	typ   *composite.Type
	names []composite.Name
	bloom *bloom.BloomFilter
}

// NewNames builds a names filter. Every name must be a complete cell name;
// the set is deduplicated and kept in the type's ascending order.
func NewNames(typ *composite.Type, names ...composite.Name) (*Names, error) {
	for _, n := range names {
		if !n.IsComplete() {
			return nil, fmt.Errorf("filter: names filter requires complete cell names")
		}
	}
	sorted := make([]composite.Name, len(names))
	copy(sorted, names)
	sort.Slice(sorted, func(i, j int) bool { return typ.Compare(sorted[i], sorted[j]) < 0 })
	deduped := sorted[:0]
	for i, n := range sorted {
		if i == 0 || typ.Compare(sorted[i-1], n) != 0 {
			deduped = append(deduped, n)
		}
	}

	capacity := uint(len(deduped))
	if capacity == 0 {
		capacity = 1
	}
	bf := bloom.NewWithEstimates(capacity, bloomFalsePositiveRate)
	for _, n := range deduped {
		bf.Add(composite.EncodeToBytes(n))
	}
	return &Names{typ: typ, names: deduped, bloom: bf}, nil
}

// Match reports set membership.
func (f *Names) Match(n composite.Name) bool {
	if !f.bloom.Test(composite.EncodeToBytes(n)) {
		return false
	}
	i := sort.Search(len(f.names), func(i int) bool {
		return f.typ.Compare(f.names[i], n) >= 0
	})
	return i < len(f.names) && f.typ.Compare(f.names[i], n) == 0
}

// Size returns the number of names selected.
func (f *Names) Size() int {
	return len(f.names)
}

// Slice selects the contiguous name range [Start, Finish]. An empty bound is
// unbounded on that side. Reversed marks the read direction for the caller;
// it does not change which names match.
type Slice struct {
	typ      *composite.Type
	Start    composite.Name
	Finish   composite.Name
	Reversed bool
}

// NewSlice builds a slice filter over the given bounds.
func NewSlice(typ *composite.Type, start, finish composite.Name, reversed bool) *Slice {
	return &Slice{typ: typ, Start: start, Finish: finish, Reversed: reversed}
}

// Match reports whether the name falls inside the slice.
func (f *Slice) Match(n composite.Name) bool {
	if !f.Start.IsEmpty() && f.typ.Compare(f.Start, n) > 0 {
		return false
	}
	if !f.Finish.IsEmpty() && f.typ.Compare(n, f.Finish) > 0 {
		return false
	}
	return true
}
