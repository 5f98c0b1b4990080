package table

import (
	"sort"
	"sync"

	"github.com/flynnfc/gamgeedb/internal/storage"
)

// memtable is the in-memory store for one table: cells in a skiplist keyed
// by the comparator suite's ascending order, range tombstones kept sorted in
// atom order alongside.
type memtable struct {
	mu         sync.RWMutex
	list       *skipList
	tombstones []storage.RangeTombstone
	suite      *storage.Suite
}

// newMemtable creates a memtable ordered by the given suite.
func newMemtable(suite *storage.Suite) *memtable {
	return &memtable{
		list:  newSkipList(suite.CompareCells),
		suite: suite,
	}
}

// put inserts or reconciles a cell.
func (m *memtable) put(c storage.Cell) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list.set(c)
}

// deleteRange records a range tombstone, keeping the set in atom order.
func (m *memtable) deleteRange(t storage.RangeTombstone) {
	m.mu.Lock()
	defer m.mu.Unlock()

	atom := storage.TombstoneAtom(t)
	i := sort.Search(len(m.tombstones), func(i int) bool {
		return m.suite.CompareAtoms(storage.TombstoneAtom(m.tombstones[i]), atom) >= 0
	})
	m.tombstones = append(m.tombstones, storage.RangeTombstone{})
	copy(m.tombstones[i+1:], m.tombstones[i:])
	m.tombstones[i] = t
}

// snapshot returns the current cells (ascending) and tombstones. The read
// path works over the snapshot so writers never race an open row iterator.
func (m *memtable) snapshot() ([]storage.Cell, []storage.RangeTombstone) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cells := m.list.cells()
	tombstones := make([]storage.RangeTombstone, len(m.tombstones))
	copy(tombstones, m.tombstones)
	return cells, tombstones
}

// len returns the number of cells stored.
func (m *memtable) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.list.len()
}
