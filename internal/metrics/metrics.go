// Package metrics exposes Prometheus counters for the harvesting pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	harvestTotal   *prometheus.CounterVec
	invokeLatency  *prometheus.HistogramVec
	authorizeTotal *prometheus.CounterVec
	probeLatency   *prometheus.GaugeVec
	probeErrors    *prometheus.CounterVec
	tokenTTL       prometheus.Gauge
)

func init() {
	harvestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_harvest_total",
			Help: "Total token harvest attempts by outcome",
		},
		[]string{"outcome"},
	)
	prometheus.MustRegister(harvestTotal)

	invokeLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "console_invoke_latency_milliseconds",
			Help:    "End to end latency of one console endpoint invocation",
			Buckets: []float64{250, 500, 1000, 2000, 5000, 10000, 20000, 30000},
		},
		[]string{"endpoint"},
	)
	prometheus.MustRegister(invokeLatency)

	authorizeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_authorize_total",
			Help: "Total console authorization attempts by outcome",
		},
		[]string{"outcome"},
	)
	prometheus.MustRegister(authorizeTotal)

	probeLatency = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "token_probe_latency_milliseconds",
			Help: "Latency of the last token verification probe",
		},
		[]string{"transport"},
	)
	prometheus.MustRegister(probeLatency)

	probeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_probe_errors_total",
			Help: "Total token verification probe errors",
		},
		[]string{"transport", "error_type"},
	)
	prometheus.MustRegister(probeErrors)

	tokenTTL = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "token_ttl_seconds",
			Help: "Seconds until the cached token expires",
		},
	)
	prometheus.MustRegister(tokenTTL)
}

// RecordHarvest records one harvest attempt, outcome is "success" or "error".
func RecordHarvest(outcome string) {
	harvestTotal.WithLabelValues(outcome).Inc()
}

// RecordInvokeLatency records the duration of one console invocation.
func RecordInvokeLatency(endpoint string, latencyMs float64) {
	invokeLatency.WithLabelValues(endpoint).Observe(latencyMs)
}

// RecordAuthorize records one authorization attempt, outcome is "success",
// "skipped" or "error".
func RecordAuthorize(outcome string) {
	authorizeTotal.WithLabelValues(outcome).Inc()
}

// RecordProbeLatency records the latency of a verification probe, transport is
// "rest" or "ws".
func RecordProbeLatency(transport string, latencyMs float64) {
	probeLatency.WithLabelValues(transport).Set(latencyMs)
}

// RecordProbeError records a failed verification probe.
func RecordProbeError(transport string, errorType string) {
	probeErrors.WithLabelValues(transport, errorType).Inc()
}

// RecordTokenTTL records the remaining lifetime of the cached token.
func RecordTokenTTL(seconds float64) {
	tokenTTL.Set(seconds)
}

func StartMetricsServer(addr string) error {
	http.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, nil)
}
