package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	analyzesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bl2u1_analyzes_total",
			Help: "Analyze requests by outcome.",
		},
		[]string{"status"},
	)

	conversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bl2u1_conversions_total",
			Help: "Conversion requests by outcome.",
		},
		[]string{"status"},
	)

	conversionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bl2u1_conversion_duration_seconds",
			Help:    "Time spent converting one package.",
			Buckets: prometheus.DefBuckets,
		},
	)

	sessionsCleaned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bl2u1_sessions_cleaned_total",
			Help: "Expired sessions removed by cleanup sweeps.",
		},
	)
)

// Outcome labels for the request counters.
const (
	statusOK       = "ok"
	statusRejected = "rejected"
	statusError    = "error"
)
