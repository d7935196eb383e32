// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace       = "pebble"
	metricsInterval = 10 * time.Second

	levelZero  = "l0"
	levelOther = "other"
)

// storeGauges are sampled from [pebble.Metrics] every [metricsInterval].
var storeGauges = []struct {
	name string
	help string
	get  func(*pebble.Metrics) float64
}{
	{"tombstone_count", "approximate count of internal tombstones", func(m *pebble.Metrics) float64 {
		return float64(m.Keys.TombstoneCount)
	}},
	{"obsolete_table_size", "bytes in tables no longer referenced by the db", func(m *pebble.Metrics) float64 {
		return float64(m.Table.ObsoleteSize)
	}},
	{"obsolete_table_count", "table files no longer referenced by the db", func(m *pebble.Metrics) float64 {
		return float64(m.Table.ObsoleteCount)
	}},
	{"obsolete_wal_size", "bytes in WAL files no longer needed by the db", func(m *pebble.Metrics) float64 {
		return float64(m.WAL.ObsoletePhysicalSize)
	}},
	{"obsolete_wal_count", "WAL files no longer needed by the db", func(m *pebble.Metrics) float64 {
		return float64(m.WAL.ObsoleteFiles)
	}},
	{"disk_space_usage", "bytes of disk used by the db", func(m *pebble.Metrics) float64 {
		return float64(m.DiskSpaceUsage())
	}},
}

type metrics struct {
	stallStart time.Time
	writeStall prometheus.Histogram

	readLatency  prometheus.Histogram
	writeLatency prometheus.Histogram
	batchSize    prometheus.Histogram

	compactions       *prometheus.CounterVec
	activeCompactions prometheus.Gauge

	gauges []prometheus.Gauge
}

func newMetrics() (*prometheus.Registry, *metrics, error) {
	r := prometheus.NewRegistry()
	m := &metrics{
		writeStall: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "write_stall_seconds",
			Help:      "time writes were stalled waiting for compactions",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		readLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "read_seconds",
			Help:      "time spent in db get",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		writeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_write_seconds",
			Help:      "time spent committing a batch",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_bytes",
			Help:      "size of committed batches",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		}),
		compactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compactions",
			Help:      "number of compactions by input level",
		}, []string{"level"}),
		activeCompactions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_compactions",
			Help:      "number of active compactions",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.writeStall),
		r.Register(m.readLatency),
		r.Register(m.writeLatency),
		r.Register(m.batchSize),
		r.Register(m.compactions),
		r.Register(m.activeCompactions),
	)
	for _, g := range storeGauges {
		gauge := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      g.name,
			Help:      g.help,
		})
		errs.Add(r.Register(gauge))
		m.gauges = append(m.gauges, gauge)
	}
	return r, m, errs.Err
}

func (m *metrics) sample(pm *pebble.Metrics) {
	for i, g := range storeGauges {
		m.gauges[i].Set(g.get(pm))
	}
}

func (db *Database) onCompactionBegin(info pebble.CompactionInfo) {
	db.metrics.activeCompactions.Inc()
	level := levelOther
	if len(info.Input) > 0 && info.Input[0].Level == 0 {
		level = levelZero
	}
	db.metrics.compactions.WithLabelValues(level).Inc()
}

func (db *Database) onCompactionEnd(pebble.CompactionInfo) {
	db.metrics.activeCompactions.Dec()
}

func (db *Database) onWriteStallBegin(pebble.WriteStallBeginInfo) {
	db.metrics.stallStart = time.Now()
}

func (db *Database) onWriteStallEnd() {
	db.metrics.writeStall.Observe(time.Since(db.metrics.stallStart).Seconds())
}

func (db *Database) collectMetrics() {
	defer close(db.done)

	t := time.NewTicker(metricsInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			db.metrics.sample(db.db.Metrics())
		case <-db.closing:
			return
		}
	}
}
