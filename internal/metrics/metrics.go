// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "wellity",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wellity",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wellity",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path"},
	)

	workoutsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wellity",
			Subsystem: "workouts",
			Name:      "generated_total",
			Help:      "Workout plans generated, by fitness level.",
		},
		[]string{"level"},
	)

	workoutsAdapted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wellity",
			Subsystem: "workouts",
			Name:      "adapted_total",
			Help:      "Workout adaptations, by direction (harder, easier, same).",
		},
		[]string{"direction"},
	)

	workoutsVerified = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wellity",
			Subsystem: "workouts",
			Name:      "verified_total",
			Help:      "Workout reviews, by verification status.",
		},
		[]string{"status"},
	)

	paymentsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wellity",
			Subsystem: "payments",
			Name:      "processed_total",
			Help:      "Payment attempts, by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		workoutsGenerated,
		workoutsAdapted,
		workoutsVerified,
		paymentsProcessed,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// TrackInFlight increments the in-flight gauge and returns the matching decrement.
func TrackInFlight() func() {
	httpInFlight.Inc()
	return httpInFlight.Dec
}

// RecordHTTPRequest records one finished request. path should be the route template,
// not the raw URL, to keep label cardinality bounded.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordWorkoutGenerated(level string) {
	workoutsGenerated.WithLabelValues(level).Inc()
}

func RecordWorkoutAdapted(direction string) {
	workoutsAdapted.WithLabelValues(direction).Inc()
}

func RecordWorkoutVerified(status string) {
	workoutsVerified.WithLabelValues(status).Inc()
}

func RecordPayment(outcome string) {
	paymentsProcessed.WithLabelValues(outcome).Inc()
}
