// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the newswire
// service: cache effectiveness and summary-batch outcomes. Exposed on
// /metrics; all operations are thread-safe via Prometheus's own locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "newswire"

	cacheSubsystem   = "cache"
	summarySubsystem = "summary"
)

// Metrics holds the service's Prometheus collectors. Construct once at
// startup with NewMetrics and inject where needed; tests pass their own
// registry to keep collectors isolated.
type Metrics struct {
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	SummaryArticles *prometheus.CounterVec
	BatchesTotal    prometheus.Counter
}

// NewMetrics registers all collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		CacheHits: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: cacheSubsystem,
			Name:      "hits_total",
			Help:      "Cache hits by logical resource.",
		}, []string{"resource"}),
		CacheMisses: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: cacheSubsystem,
			Name:      "misses_total",
			Help:      "Cache misses by logical resource.",
		}, []string{"resource"}),
		SummaryArticles: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: summarySubsystem,
			Name:      "articles_total",
			Help:      "Summarized articles by outcome (success or failure).",
		}, []string{"outcome"}),
		BatchesTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: summarySubsystem,
			Name:      "batches_total",
			Help:      "Completed batch summarization passes.",
		}),
	}
}

// ObserveBatch records the per-item outcomes of one finished batch.
func (m *Metrics) ObserveBatch(succeeded, failed int) {
	m.BatchesTotal.Inc()
	m.SummaryArticles.WithLabelValues("success").Add(float64(succeeded))
	m.SummaryArticles.WithLabelValues("failure").Add(float64(failed))
}
