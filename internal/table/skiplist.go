package table

import (
	"math/rand"
	"time"

	"github.com/flynnfc/gamgeedb/internal/storage"
)

const maxLevel = 32 // Maximum number of levels in the skiplist
const p = 0.25      // Probability for level increase

// node represents an element in the skiplist.
type node struct {
	cell storage.Cell
	next []*node
}

// skipList keeps cells in the table's ascending cell order. Ordering comes
// from the comparator suite, not raw bytes, so reads see exactly the order
// writes sorted under.
type skipList struct {
	head    *node
	height  int
	length  int
	cmp     func(a, b storage.Cell) int
	randSrc rand.Source
}

// newSkipList creates a skiplist ordered by the given cell comparator.
func newSkipList(cmp func(a, b storage.Cell) int) *skipList {
	return &skipList{
		head: &node{
			next: make([]*node, maxLevel),
		},
		cmp:     cmp,
		randSrc: rand.NewSource(time.Now().UnixNano()),
		height:  1,
		length:  0,
	}
}

// randomLevel generates a random level for a new node.
func (sl *skipList) randomLevel() int {
	level := 1
	for ; level < maxLevel && rand.New(sl.randSrc).Float64() < p; level++ {
	}
	return level
}

// set inserts the cell, or reconciles it against the existing version of the
// same name: the newer write timestamp wins.
func (sl *skipList) set(c storage.Cell) {
	update := make([]*node, maxLevel)
	current := sl.head

	for i := sl.height - 1; i >= 0; i-- {
		for current.next[i] != nil && sl.cmp(current.next[i].cell, c) < 0 {
			current = current.next[i]
		}
		update[i] = current
	}

	// Same name: last writer wins.
	if current.next[0] != nil && sl.cmp(current.next[0].cell, c) == 0 {
		if c.Timestamp >= current.next[0].cell.Timestamp {
			current.next[0].cell = c
		}
		return
	}

	level := sl.randomLevel()
	if level > sl.height {
		for i := sl.height; i < level; i++ {
			update[i] = sl.head
		}
		sl.height = level
	}

	n := &node{
		cell: c,
		next: make([]*node, level),
	}

	for i := 0; i < level; i++ {
		n.next[i] = update[i].next[i]
		update[i].next[i] = n
	}

	sl.length++
}

// cells returns every cell in ascending order.
func (sl *skipList) cells() []storage.Cell {
	out := make([]storage.Cell, 0, sl.length)
	for n := sl.head.next[0]; n != nil; n = n.next[0] {
		out = append(out, n.cell)
	}
	return out
}

// len returns the number of cells stored.
func (sl *skipList) len() int {
	return sl.length
}
