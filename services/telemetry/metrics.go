package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusTelemetryGets    *prometheus.CounterVec
	prometheusTelemetryFetches *prometheus.CounterVec
	prometheusTelemetryErrors  *prometheus.CounterVec
	prometheusTelemetryStale   *prometheus.CounterVec
)

var prometheusMetricsInitialized = false

func initPrometheusMetrics() {
	if prometheusMetricsInitialized {
		return
	}

	prometheusTelemetryGets = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "telemetry",
			Name:      "gets",
			Help:      "Number of telemetry summary lookups per source",
		},
		[]string{"source"},
	)

	prometheusTelemetryFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "telemetry",
			Name:      "fetches",
			Help:      "Number of upstream telemetry fetches per source",
		},
		[]string{"source"},
	)

	prometheusTelemetryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "telemetry",
			Name:      "errors",
			Help:      "Number of failed upstream telemetry fetches per source",
		},
		[]string{"source"},
	)

	prometheusTelemetryStale = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "telemetry",
			Name:      "stale_served",
			Help:      "Number of times a stale telemetry value was served per source",
		},
		[]string{"source"},
	)

	prometheusMetricsInitialized = true
}
