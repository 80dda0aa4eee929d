package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ExecutionsRunning is the number of tool executions currently in flight.
	ExecutionsRunning = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tool_executions_running",
			Help: "Number of tool executions currently running",
		},
	)

	// ExecutionsTotal counts finished tool executions by outcome
	// (completed, binary_not_found, timed_out, output_write_failure).
	ExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_executions_total",
			Help: "Total number of tool executions finished by outcome",
		},
		[]string{"outcome"},
	)

	// TriggersSkipped counts scheduler skips by reason (disabled, overlap).
	TriggersSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedule_triggers_skipped_total",
			Help: "Total number of schedule triggers skipped by reason",
		},
		[]string{"reason"},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, ExecutionsRunning, ExecutionsTotal, TriggersSkipped)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /v1/commands/123 -> /v1/commands/{id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// ExecutionStarted increments the running executions gauge.
func ExecutionStarted() {
	ExecutionsRunning.Inc()
}

// ExecutionFinished decrements the running gauge and counts the outcome.
func ExecutionFinished(outcome string) {
	ExecutionsRunning.Dec()
	ExecutionsTotal.WithLabelValues(outcome).Inc()
}

// TriggerSkipped counts a scheduler skip ("disabled" or "overlap").
func TriggerSkipped(reason string) {
	TriggersSkipped.WithLabelValues(reason).Inc()
}
