// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package handler

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "recordd"
)

type metrics struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	cacheHits prometheus.Counter
}

// each handler has its own registry so several can coexist in one process
func newMetrics(store Store) *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "list_cache_hits_total",
			Help:      "Record list responses served from the cache.",
		}),
	}

	records := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "records",
		Help:      "Number of records in the store.",
	}, func() float64 {
		return float64(store.Count())
	})
	height := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "tree_height",
		Help:      "Height of the record tree.",
	}, func() float64 {
		return float64(store.Height())
	})
	generation := prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "changes_total",
		Help:      "Successful changes since start.",
	}, func() float64 {
		return float64(store.Generation())
	})

	m.registry.MustRegister(m.requests, m.cacheHits, records, height, generation)
	return m
}

func (m *metrics) observe(method string, sw *statusWriter) {
	m.requests.WithLabelValues(method, strconv.Itoa(sw.status)).Inc()
}
