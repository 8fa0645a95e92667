package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imgpair",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "imgpair",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)

	framesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imgpair",
			Subsystem: "session",
			Name:      "frames_total",
			Help:      "Transport frames sent or received, by role and direction.",
		},
		[]string{"role", "direction"},
	)
	bytesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imgpair",
			Subsystem: "session",
			Name:      "bytes_total",
			Help:      "Payload bytes sent or received, by role and direction.",
		},
		[]string{"role", "direction"},
	)
	sessionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "imgpair",
			Subsystem: "session",
			Name:      "duration_seconds",
			Help:      "Single-image session duration in seconds, by outcome.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"role", "outcome"},
	)
	sessionsByOutcome = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imgpair",
			Subsystem: "session",
			Name:      "outcomes_total",
			Help:      "Completed sessions by terminal outcome.",
		},
		[]string{"role", "outcome"},
	)
)

// RegisterMetrics registers every collector with the default Prometheus
// registry exactly once per process.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests, httpDuration,
			framesTotal, bytesTotal, sessionDuration, sessionsByOutcome,
		)
	})
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

// RecordFrame increments the frame/byte counters for one frame sent or
// received in the given protocol role ("sender"/"receiver") and direction
// ("sent"/"received"). The protocol package reports a whole pixel payload
// as one call, however many transport frames it spanned.
func RecordFrame(role, direction string, payloadBytes int) {
	RegisterMetrics()
	framesTotal.WithLabelValues(role, direction).Inc()
	bytesTotal.WithLabelValues(role, direction).Add(float64(payloadBytes))
}

// RecordSessionOutcome records one finished single-image session's
// terminal outcome and wall-clock duration.
func RecordSessionOutcome(role, outcome string, duration time.Duration) {
	RegisterMetrics()
	sessionsByOutcome.WithLabelValues(role, outcome).Inc()
	sessionDuration.WithLabelValues(role, outcome).Observe(duration.Seconds())
}
