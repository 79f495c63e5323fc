package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "carprice"

var (
	predictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Total number of prediction submissions labeled by form variant and outcome",
		},
		[]string{"variant", "outcome"},
	)
	predictionDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prediction_duration_seconds",
			Help:      "Round-trip time of prediction requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"variant"},
	)
	phaseTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "form_phase_transitions_total",
			Help:      "Total number of form phase transitions",
		},
		[]string{"from", "to"},
	)
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Total number of handled errors split by code and severity",
		},
		[]string{"code", "severity"},
	)
	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Current number of live form sessions",
		},
	)
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served labeled by route, method and status",
		},
		[]string{"route", "method", "status"},
	)
)

// RecordPrediction counts a finished submission and observes its duration.
func RecordPrediction(variant, outcome string, duration time.Duration) {
	variant = orUnknown(variant)
	predictionsTotal.WithLabelValues(variant, orUnknown(outcome)).Inc()
	predictionDurationSeconds.WithLabelValues(variant).Observe(duration.Seconds())
}

func RecordPhaseTransition(from, to string) {
	phaseTransitionsTotal.WithLabelValues(orUnknown(from), orUnknown(to)).Inc()
}

func RecordError(code, severity string) {
	errorsTotal.WithLabelValues(orUnknown(code), orUnknown(severity)).Inc()
}

func SetActiveSessions(count int) {
	activeSessions.Set(float64(count))
}

func RecordHTTPRequest(route, method string, status int) {
	httpRequestsTotal.WithLabelValues(orUnknown(route), method, strconv.Itoa(status)).Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
