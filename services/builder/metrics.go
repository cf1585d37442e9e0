package builder

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusBuildRequests     prometheus.Counter
	prometheusBuildSuccess      prometheus.Counter
	prometheusBuildErrors       *prometheus.CounterVec
	prometheusBuildFallbacks    prometheus.Counter
	prometheusBuildReselections prometheus.Counter
	prometheusSelectionMode     *prometheus.CounterVec
	prometheusFeeMode           *prometheus.CounterVec
	prometheusInputsSelected    prometheus.Counter
	prometheusBuildDuration     prometheus.Histogram
)

var prometheusMetricsInitialized = false

func initPrometheusMetrics() {
	if prometheusMetricsInitialized {
		return
	}

	prometheusBuildRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "txbuilder",
			Name:      "build_requests",
			Help:      "Number of transaction build requests received",
		},
	)

	prometheusBuildSuccess = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "txbuilder",
			Name:      "build_success",
			Help:      "Number of transactions successfully built",
		},
	)

	prometheusBuildErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "txbuilder",
			Name:      "build_errors",
			Help:      "Number of failed build requests per error code",
		},
		[]string{"code"},
	)

	prometheusBuildFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "txbuilder",
			Name:      "build_fallbacks",
			Help:      "Number of builds that fell back to spending all available inputs",
		},
	)

	prometheusBuildReselections = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "txbuilder",
			Name:      "build_reselections",
			Help:      "Number of builds that re-selected inputs after fee computation",
		},
	)

	prometheusSelectionMode = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "txbuilder",
			Name:      "selection_mode",
			Help:      "Number of builds per coin selection mode",
		},
		[]string{"mode"},
	)

	prometheusFeeMode = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "txbuilder",
			Name:      "fee_mode",
			Help:      "Number of builds per fee mode",
		},
		[]string{"mode"},
	)

	prometheusInputsSelected = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "txbuilder",
			Name:      "inputs_selected",
			Help:      "Total number of inputs spent across all built transactions",
		},
	)

	prometheusBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "txbuilder",
			Name:      "build_duration_seconds",
			Help:      "Time taken to build one transaction",
			Buckets:   prometheus.DefBuckets,
		},
	)

	prometheusMetricsInitialized = true
}
