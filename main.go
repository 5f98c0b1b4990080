package main

import (
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/flynnfc/gamgeedb/internal/composite"
	"github.com/flynnfc/gamgeedb/internal/config"
	"github.com/flynnfc/gamgeedb/internal/metrics"
	"github.com/flynnfc/gamgeedb/internal/storage"
	"github.com/flynnfc/gamgeedb/internal/table"
	"github.com/flynnfc/gamgeedb/internal/truetime"
	"github.com/flynnfc/gamgeedb/logger"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	go func() {
		// Start the pprof server on port 6060
		fmt.Println(http.ListenAndServe("localhost:6060", nil))
	}()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}

	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	log := logger.InitLogger(cfg.Logging.Name, level)
	defer log.Sync()

	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			log.Info("metrics endpoint listening", zap.String("addr", cfg.Metrics.Addr))
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				log.Error("metrics endpoint failed", zap.Error(err))
			}
		}()
	}

	clock := truetime.New(log)
	if cfg.Clock.NTPSync {
		clock.Run()
		defer clock.Stop()
	}

	// A sparse time-series table: rows keyed by (sensor, day), scalar
	// readings stored as named columns, tags as a collection.
	typ := composite.NewSparseType([]composite.Comparator{composite.Bytewise, composite.Bytewise}, true)
	tbl, err := table.New(log, typ, table.Config{Name: "readings", WALDir: cfg.Table.WALDir}, metrics.New(prometheus.DefaultRegisterer, "readings"))
	if err != nil {
		log.Fatal("failed to open table", zap.Error(err))
	}
	defer tbl.Close()

	now := clock.NowMicros()
	rowKey, err := typ.Prefix([]byte("sensor-1"), []byte("2026-08-23"))
	if err != nil {
		log.Fatal("bad row key", zap.Error(err))
	}

	put := func(column, value string) {
		name, err := typ.ColumnCell(rowKey, []byte(column))
		if err != nil {
			log.Fatal("bad cell name", zap.Error(err))
		}
		if err := tbl.Put(storage.Cell{Name: name, Value: []byte(value), Timestamp: now}); err != nil {
			log.Fatal("put failed", zap.Error(err))
		}
	}
	put("temperature", "21.4")
	put("humidity", "0.62")
	for i, tag := range []string{"calibrated", "outdoor"} {
		name, err := typ.CollectionCell(rowKey, []byte("tags"), []byte{byte(i)})
		if err != nil {
			log.Fatal("bad collection cell name", zap.Error(err))
		}
		if err := tbl.Put(storage.Cell{Name: name, Value: []byte(tag), Timestamp: now}); err != nil {
			log.Fatal("put failed", zap.Error(err))
		}
	}

	it := tbl.Read(clock.NowMicros(), nil)
	for row, ok := it.Next(); ok; row, ok = it.Next() {
		temp, _ := row.Column([]byte("temperature"))
		humidity, _ := row.Column([]byte("humidity"))
		log.Info("reconstructed row",
			zap.ByteString("sensor", row.ClusteringColumn(0)),
			zap.ByteString("day", row.ClusteringColumn(1)),
			zap.ByteString("temperature", temp.Value),
			zap.ByteString("humidity", humidity.Value),
			zap.Int("tags", len(row.Collection([]byte("tags")))),
		)
	}
}
