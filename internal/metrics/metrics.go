package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "nbu_rates"

// Outcome labels for DaysFetched.
const (
	OutcomeSuccess        = "success"
	OutcomeCached         = "cached"
	OutcomeNotFound       = "not_found"
	OutcomeTimeout        = "timeout"
	OutcomeRequestFailure = "request_failure"
	OutcomeUnexpected     = "unexpected"
)

var (
	DaysFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "days_fetched_total",
		Help:      "Days resolved against the NBU API, by outcome.",
	}, []string{"outcome"})

	RowsAppended = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rows_appended_total",
		Help:      "Rate rows appended to the row sink.",
	})

	SinkFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sink_failures_total",
		Help:      "Failed batch appends to the row sink.",
	})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "status"})
)
