// Branchfinder - Bank Branch and ATM Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/branchfinder

// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Recommendation requests by outcome (primary, fallback, no_candidate, error)",
		},
		[]string{"outcome"},
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "End-to-end pipeline duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	StageSurvivors = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_stage_survivors",
			Help:    "Candidates left after each pipeline stage",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"stage"},
	)

	// Dataset Metrics
	DatasetLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dataset_load_duration_seconds",
			Help:    "Time to read and decode the location dataset",
			Buckets: prometheus.DefBuckets,
		},
	)

	DatasetRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dataset_records",
			Help: "Records in the last loaded dataset by kind",
		},
		[]string{"kind"},
	)

	DatasetSkippedRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_skipped_records_total",
			Help: "Records dropped while loading because they were unusable",
		},
		[]string{"kind", "reason"},
	)

	DatasetLoadErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dataset_load_errors_total",
			Help: "Dataset loads that failed",
		},
	)

	DatasetAvailable = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_available",
			Help: "1 if the last background probe loaded the dataset, 0 otherwise",
		},
	)

	// Routing Metrics
	RoutingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routing_requests_total",
			Help: "Routing provider calls by result (success, upstream_error, malformed, transport_error, throttled)",
		},
		[]string{"provider", "result"},
	)

	RoutingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "routing_request_duration_seconds",
			Help:    "Routing provider call duration in seconds",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"provider"},
	)

	RoutingCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routing_cache_lookups_total",
			Help: "Route cache lookups by result (hit, miss)",
		},
		[]string{"result"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest moves the in-flight gauge up or down.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// StageCount is one stage's survivor count.
type StageCount struct {
	Stage string
	Count int
}

// RecordRecommendation records one finished pipeline run.
func RecordRecommendation(outcome string, duration time.Duration, stages []StageCount) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	RecommendationDuration.Observe(duration.Seconds())
	for _, s := range stages {
		StageSurvivors.WithLabelValues(s.Stage).Observe(float64(s.Count))
	}
}

// RecordDatasetLoad records a dataset load attempt.
func RecordDatasetLoad(duration time.Duration, atms, branches int, err error) {
	DatasetLoadDuration.Observe(duration.Seconds())
	if err != nil {
		DatasetLoadErrors.Inc()
		return
	}
	DatasetRecords.WithLabelValues("atm").Set(float64(atms))
	DatasetRecords.WithLabelValues("branch").Set(float64(branches))
}

// SetDatasetAvailable records the outcome of a background dataset probe.
func SetDatasetAvailable(ok bool) {
	if ok {
		DatasetAvailable.Set(1)
		return
	}
	DatasetAvailable.Set(0)
}

// RecordRoutingRequest records one routing provider call.
func RecordRoutingRequest(provider, result string, duration time.Duration) {
	RoutingRequests.WithLabelValues(provider, result).Inc()
	RoutingDuration.WithLabelValues(provider).Observe(duration.Seconds())
}
