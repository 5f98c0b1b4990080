package table

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/flynnfc/gamgeedb/internal/composite"
	"github.com/flynnfc/gamgeedb/internal/filter"
	"github.com/flynnfc/gamgeedb/internal/metrics"
	"github.com/flynnfc/gamgeedb/internal/rows"
	"github.com/flynnfc/gamgeedb/internal/storage"
)

const testNow = int64(1_000_000)

func newTestTable(t *testing.T, typ *composite.Type) *Table {
	t.Helper()
	m := metrics.New(prometheus.NewRegistry(), "test")
	tbl, err := New(zap.NewNop(), typ, Config{Name: "test"}, m)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { tbl.Close() })
	return tbl
}

func sparseTableType() *composite.Type {
	return composite.NewSparseType([]composite.Comparator{composite.Bytewise}, true)
}

func putColumn(t *testing.T, tbl *Table, row, col, value string, ts int64) {
	t.Helper()
	typ := tbl.Type()
	prefix, err := typ.Prefix([]byte(row))
	if err != nil {
		t.Fatalf("Prefix failed: %v", err)
	}
	name, err := typ.ColumnCell(prefix, []byte(col))
	if err != nil {
		t.Fatalf("ColumnCell failed: %v", err)
	}
	if err := tbl.Put(storage.Cell{Name: name, Value: []byte(value), Timestamp: ts}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
}

func drain(it rows.RowIterator) []*rows.Row {
	var out []*rows.Row
	for r, ok := it.Next(); ok; r, ok = it.Next() {
		out = append(out, r)
	}
	return out
}

func TestPutAndReadSparse(t *testing.T) {
	tbl := newTestTable(t, sparseTableType())

	// Out-of-order writes; the read must come back grouped and sorted.
	putColumn(t, tbl, "p2", "z", "3", 10)
	putColumn(t, tbl, "p1", "y", "2", 10)
	putColumn(t, tbl, "p1", "x", "1", 10)

	got := drain(tbl.Read(testNow, nil))
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	if !bytes.Equal(got[0].ClusteringColumn(0), []byte("p1")) {
		t.Errorf("first row = %q, want p1", got[0].ClusteringColumn(0))
	}
	if c, ok := got[0].Column([]byte("x")); !ok || !bytes.Equal(c.Value, []byte("1")) {
		t.Errorf("p1.x = %q, %v; want 1", c.Value, ok)
	}
	if c, ok := got[1].Column([]byte("z")); !ok || !bytes.Equal(c.Value, []byte("3")) {
		t.Errorf("p2.z = %q, %v; want 3", c.Value, ok)
	}
}

func TestPutResolvesVersionsByTimestamp(t *testing.T) {
	tbl := newTestTable(t, sparseTableType())

	putColumn(t, tbl, "p1", "x", "new", 20)
	putColumn(t, tbl, "p1", "x", "stale", 10) // older write arrives late

	got := drain(tbl.Read(testNow, nil))
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
	if c, _ := got[0].Column([]byte("x")); !bytes.Equal(c.Value, []byte("new")) {
		t.Errorf("p1.x = %q, want the newer write to win", c.Value)
	}
}

func TestPutRejectsPrefixName(t *testing.T) {
	tbl := newTestTable(t, sparseTableType())
	prefix, err := tbl.Type().Prefix([]byte("p1"))
	if err != nil {
		t.Fatalf("Prefix failed: %v", err)
	}
	if err := tbl.Put(storage.Cell{Name: prefix, Timestamp: 1}); err == nil {
		t.Error("Put accepted an incomplete name")
	}
}

func TestRangeDeleteHidesCoveredCells(t *testing.T) {
	tbl := newTestTable(t, sparseTableType())
	typ := tbl.Type()

	putColumn(t, tbl, "p1", "x", "1", 10)
	putColumn(t, tbl, "p2", "y", "2", 10)

	min, err := typ.Prefix([]byte("p1"))
	if err != nil {
		t.Fatalf("Prefix failed: %v", err)
	}
	if err := tbl.DeleteRange(storage.RangeTombstone{
		Min:      min,
		Max:      min.WithEOC(composite.EOCEnd),
		Deletion: storage.Deletion{MarkedAt: 15},
	}); err != nil {
		t.Fatalf("DeleteRange failed: %v", err)
	}

	got := drain(tbl.Read(testNow, nil))
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
	if !bytes.Equal(got[0].ClusteringColumn(0), []byte("p2")) {
		t.Errorf("surviving row = %q, want p2", got[0].ClusteringColumn(0))
	}

	// A write newer than the tombstone resurfaces the row.
	putColumn(t, tbl, "p1", "x", "again", 20)
	got = drain(tbl.Read(testNow, nil))
	if len(got) != 2 {
		t.Fatalf("after newer write: got %d rows, want 2", len(got))
	}
}

func TestReadHonorsNamesFilter(t *testing.T) {
	tbl := newTestTable(t, sparseTableType())
	typ := tbl.Type()

	putColumn(t, tbl, "p1", "x", "1", 10)
	putColumn(t, tbl, "p1", "y", "2", 10)

	prefix, err := typ.Prefix([]byte("p1"))
	if err != nil {
		t.Fatalf("Prefix failed: %v", err)
	}
	wanted, err := typ.ColumnCell(prefix, []byte("x"))
	if err != nil {
		t.Fatalf("ColumnCell failed: %v", err)
	}
	f, err := filter.NewNames(typ, wanted)
	if err != nil {
		t.Fatalf("NewNames failed: %v", err)
	}

	got := drain(tbl.Read(testNow, f))
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
	if _, ok := got[0].Column([]byte("y")); ok {
		t.Error("filtered-out column leaked into the row")
	}
	if _, ok := got[0].Column([]byte("x")); !ok {
		t.Error("selected column missing from the row")
	}
}

func TestDenseTableRead(t *testing.T) {
	typ := composite.NewDenseType([]composite.Comparator{composite.Bytewise})
	tbl := newTestTable(t, typ)

	for _, key := range []string{"b", "a"} {
		name, err := typ.CellName([]byte(key))
		if err != nil {
			t.Fatalf("CellName failed: %v", err)
		}
		if err := tbl.Put(storage.Cell{Name: name, Value: []byte("v-" + key), Timestamp: 10}); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	got := drain(tbl.Read(testNow, nil))
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	if !bytes.Equal(got[0].ClusteringColumn(0), []byte("a")) {
		t.Errorf("first dense row = %q, want a", got[0].ClusteringColumn(0))
	}
}

func TestExpiredCellsNeverSurface(t *testing.T) {
	tbl := newTestTable(t, sparseTableType())
	typ := tbl.Type()

	prefix, err := typ.Prefix([]byte("p1"))
	if err != nil {
		t.Fatalf("Prefix failed: %v", err)
	}
	name, err := typ.ColumnCell(prefix, []byte("x"))
	if err != nil {
		t.Fatalf("ColumnCell failed: %v", err)
	}
	if err := tbl.Put(storage.Cell{Name: name, Value: []byte("1"), Timestamp: 10, ExpiresAt: testNow - 1}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if got := drain(tbl.Read(testNow, nil)); len(got) != 0 {
		t.Errorf("expired cell produced %d rows", len(got))
	}
}

func TestTableWithWAL(t *testing.T) {
	typ := sparseTableType()
	m := metrics.New(prometheus.NewRegistry(), "waltest")
	tbl, err := New(zap.NewNop(), typ, Config{Name: "waltest", WALDir: t.TempDir()}, m)
	if err != nil {
		t.Fatalf("New with WAL failed: %v", err)
	}
	defer tbl.Close()

	putColumn(t, tbl, "p1", "x", "1", 10)
	if got := drain(tbl.Read(testNow, nil)); len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
}
