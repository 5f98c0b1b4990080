package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for one table's read and write
// paths.
type Metrics struct {
	WritesTotal        prometheus.Counter
	RangeDeletesTotal  prometheus.Counter
	ReadsTotal         prometheus.Counter
	RowsBuiltTotal     prometheus.Counter
	ExpiredCellsTotal  prometheus.Counter
	DeletedCellsTotal  prometheus.Counter
	FilteredCellsTotal prometheus.Counter
	MemtableCells      prometheus.Gauge
}

// New creates and registers the metric set against the given registerer.
// Tests pass a fresh registry to keep collectors from colliding.
func New(reg prometheus.Registerer, table string) *Metrics {
	labels := prometheus.Labels{"table": table}
	factory := promauto.With(reg)
	return &Metrics{
		WritesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name:        "gamgeedb_writes_total",
			Help:        "Cells written to the table.",
			ConstLabels: labels,
		}),
		RangeDeletesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name:        "gamgeedb_range_deletes_total",
			Help:        "Range tombstones written to the table.",
			ConstLabels: labels,
		}),
		ReadsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name:        "gamgeedb_reads_total",
			Help:        "Read requests served.",
			ConstLabels: labels,
		}),
		RowsBuiltTotal: factory.NewCounter(prometheus.CounterOpts{
			Name:        "gamgeedb_rows_built_total",
			Help:        "Logical rows reconstructed for readers.",
			ConstLabels: labels,
		}),
		ExpiredCellsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name:        "gamgeedb_expired_cells_total",
			Help:        "Cells skipped on read because their expiry had passed.",
			ConstLabels: labels,
		}),
		DeletedCellsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name:        "gamgeedb_deleted_cells_total",
			Help:        "Cells hidden on read by a covering range tombstone.",
			ConstLabels: labels,
		}),
		FilteredCellsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name:        "gamgeedb_filtered_cells_total",
			Help:        "Cells excluded on read by the request's filter.",
			ConstLabels: labels,
		}),
		MemtableCells: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "gamgeedb_memtable_cells",
			Help:        "Cells currently held in the memtable.",
			ConstLabels: labels,
		}),
	}
}
