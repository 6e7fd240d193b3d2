// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "numbers"

var (
	searchesCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_completed_total",
			Help:      "Total searches by how they finished.",
		},
		[]string{"stop_reason"}, // e.g. max_unique, empty_streak, failed
	)

	batchesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_batches_total",
			Help:      "Total provider pages added to a search session.",
		},
	)

	candidatesAdmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_admitted_total",
			Help:      "Total unique numbers admitted into search sessions.",
		},
	)

	backoffs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_backoffs_total",
			Help:      "Total backoff waits by error kind.",
		},
		[]string{"kind"},
	)

	backoffDelay = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_backoff_delay_seconds",
			Help:      "Backoff delays chosen after transient provider errors.",
			Buckets:   []float64{0.5, 1, 2, 4, 8, 16, 30},
		},
	)

	acquisitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "acquisitions_total",
			Help:      "Total purchase attempts by status.",
		},
		[]string{"status"},
	)

	providerRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Duration of requests to the number provider.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", "outcome"},
	)
)

// SearchCompleted counts a finished search
func SearchCompleted(stopReason string) {
	searchesCompleted.WithLabelValues(stopReason).Inc()
}

// BatchProcessed counts one page and the numbers it admitted
func BatchProcessed(newUnique int) {
	batchesProcessed.Inc()
	candidatesAdmitted.Add(float64(newUnique))
}

// Backoff records a wait after a transient error of the given kind
func Backoff(kind string, delay time.Duration) {
	backoffs.WithLabelValues(kind).Inc()
	backoffDelay.Observe(delay.Seconds())
}

// Acquisition counts one purchase attempt
func Acquisition(status string) {
	acquisitions.WithLabelValues(status).Inc()
}

// ProviderRequest observes one provider call
func ProviderRequest(operation string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	providerRequestDuration.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())
}
