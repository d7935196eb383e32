// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

type metrics struct {
	txs             *prometheus.CounterVec
	countersCreated prometheus.Counter
	countersClosed  prometheus.Counter
	executeLatency  prometheus.Histogram
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		txs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "txs",
			Help:      "number of submitted transactions",
		}, []string{"action", "outcome"}),
		countersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "counters_created",
			Help:      "number of counters created",
		}),
		countersClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "counters_closed",
			Help:      "number of counters closed",
		}),
		executeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "chain",
			Name:      "execute_latency",
			Help:      "time spent executing a transaction in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.txs),
		r.Register(m.countersCreated),
		r.Register(m.countersClosed),
		r.Register(m.executeLatency),
	)
	return m, errs.Err
}
