// Package table is the in-memory wide-column table: the merge layer that
// produces the sorted, reconciled cell sequence the row builders consume.
package table

import (
	"bytes"
	"fmt"

	wal "github.com/aarthikrao/wal"
	"go.uber.org/zap"

	"github.com/flynnfc/gamgeedb/internal/composite"
	"github.com/flynnfc/gamgeedb/internal/filter"
	"github.com/flynnfc/gamgeedb/internal/metrics"
	"github.com/flynnfc/gamgeedb/internal/rows"
	"github.com/flynnfc/gamgeedb/internal/storage"
	"github.com/flynnfc/gamgeedb/logger"
)

// Config holds user-defined settings for one table.
type Config struct {
	Name   string
	WALDir string // empty disables the write-ahead log
}

// Table manages one table's memtable and serves logical-row reads. All
// ordering, write-side sorting and read-side merging alike, flows through a
// single comparator suite built from the table's name type.
type Table struct {
	logger  *zap.Logger
	config  Config
	typ     *composite.Type
	suite   *storage.Suite
	atoms   storage.AtomSerializer
	mem     *memtable
	wal     *wal.WriteAheadLog
	metrics *metrics.Metrics
}

// New creates a table for the given name type.
func New(l *zap.Logger, typ *composite.Type, cfg Config, m *metrics.Metrics) (*Table, error) {
	suite := storage.NewSuite(typ)
	t := &Table{
		logger:  l,
		config:  cfg,
		typ:     typ,
		suite:   suite,
		atoms:   storage.NewAtomSerializer(typ),
		mem:     newMemtable(suite),
		metrics: m,
	}
	if cfg.WALDir != "" {
		w, err := logger.InitWAL(cfg.WALDir, l)
		if err != nil {
			return nil, fmt.Errorf("table %s: open wal: %w", cfg.Name, err)
		}
		t.wal = w
	}
	return t, nil
}

// Suite returns the comparator suite every caller sorting or searching this
// table's atoms must use.
func (t *Table) Suite() *storage.Suite {
	return t.suite
}

// Type returns the table's name type.
func (t *Table) Type() *composite.Type {
	return t.typ
}

// Put writes one cell. The name must be a complete cell name; version
// conflicts against an existing cell resolve by write timestamp.
func (t *Table) Put(c storage.Cell) error {
	if !c.Name.IsComplete() {
		return fmt.Errorf("table %s: put requires a complete cell name", t.config.Name)
	}
	if err := t.logAtom(storage.CellAtom(c)); err != nil {
		return err
	}
	t.mem.put(c)
	t.metrics.WritesTotal.Inc()
	t.metrics.MemtableCells.Set(float64(t.mem.len()))
	return nil
}

// DeleteRange records a range tombstone hiding every covered cell written at
// or before the deletion time.
func (t *Table) DeleteRange(rt storage.RangeTombstone) error {
	if err := t.logAtom(storage.TombstoneAtom(rt)); err != nil {
		return err
	}
	t.mem.deleteRange(rt)
	t.metrics.RangeDeletesTotal.Inc()
	return nil
}

// Read returns the lazy logical-row sequence visible at now, optionally
// narrowed by a filter. Grouping mode follows the table's layout. The
// iterator is single-pass; abandoning it early is safe.
func (t *Table) Read(now int64, f filter.Filter) rows.RowIterator {
	t.metrics.ReadsTotal.Inc()

	cells, tombstones := t.mem.snapshot()
	selected := cells[:0:0]
	for _, c := range cells {
		if !c.Live(now) {
			// Builders skip expired cells themselves; counted here,
			// passed through unchanged.
			t.metrics.ExpiredCellsTotal.Inc()
			selected = append(selected, c)
			continue
		}
		if t.shadowed(c, tombstones) {
			t.metrics.DeletedCellsTotal.Inc()
			continue
		}
		if f != nil && !f.Match(c.Name) {
			t.metrics.FilteredCellsTotal.Inc()
			continue
		}
		selected = append(selected, c)
	}

	return &countingIterator{
		inner:   rows.Group(t.typ, rows.SliceCells(selected), now),
		metrics: t.metrics,
	}
}

// Close flushes and releases the WAL.
func (t *Table) Close() error {
	if t.wal == nil {
		return nil
	}
	if err := t.wal.Close(); err != nil {
		t.logger.Error("failed to close wal", zap.String("table", t.config.Name), zap.Error(err))
		return err
	}
	return nil
}

// shadowed reports whether some tombstone covers the cell's name and is
// recent enough to delete its write.
func (t *Table) shadowed(c storage.Cell, tombstones []storage.RangeTombstone) bool {
	for _, rt := range tombstones {
		if rt.Covers(t.typ, c.Name) && rt.Deletion.Deletes(c) {
			return true
		}
	}
	return false
}

// logAtom appends the serialized mutation to the WAL before it is applied.
func (t *Table) logAtom(a storage.Atom) error {
	if t.wal == nil {
		return nil
	}
	var buf bytes.Buffer
	buf.Grow(t.atoms.SerializedSize(a))
	if err := t.atoms.Serialize(&buf, a); err != nil {
		return fmt.Errorf("table %s: encode wal record: %w", t.config.Name, err)
	}
	if _, err := t.wal.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("table %s: append wal record: %w", t.config.Name, err)
	}
	return nil
}

// countingIterator wraps a row iterator to count emitted rows.
type countingIterator struct {
	inner   rows.RowIterator
	metrics *metrics.Metrics
}

func (it *countingIterator) Next() (*rows.Row, bool) {
	r, ok := it.inner.Next()
	if ok {
		it.metrics.RowsBuiltTotal.Inc()
	}
	return r, ok
}
