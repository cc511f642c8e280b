// Package metrics provides Prometheus metrics for the NRIC service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values shared by callers.
const (
	ResultValid   = "valid"
	ResultInvalid = "invalid"

	OutcomeResolved    = "resolved"
	OutcomeNoCandidate = "no_candidate"
	OutcomeStatistics  = "statistics_error"
	OutcomeBadInput    = "bad_input"
	OutcomeError       = "error"
)

// Manager manages all Prometheus metrics for the NRIC service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Core metrics
	validations          *prometheus.CounterVec
	resolutions          *prometheus.CounterVec
	resolutionCandidates prometheus.Histogram
	resolutionLatency    prometheus.Histogram

	// Statistics collaborator
	statsFetchLatency prometheus.Histogram
	statsFetchErrors  *prometheus.CounterVec

	// Batch validation
	batchSize prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "nric",
		subsystem:        "service",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.validations = auto.NewCounterVec(
		m.counterOpts("validations_total", "Identifier checksum validations by result and reason"),
		[]string{"result", "reason"},
	)
	m.resolutions = auto.NewCounterVec(
		m.counterOpts("resolutions_total", "Identifier resolutions by outcome"),
		[]string{"outcome"},
	)
	m.resolutionCandidates = auto.NewHistogram(m.histogramOpts(
		"resolution_candidates",
		"Number of checksum-valid candidates per resolution",
		[]float64{0, 1, 2, 4, 6, 8, 10, 12, 16, 25, 50, 100},
	))
	m.resolutionLatency = auto.NewHistogram(m.histogramOpts(
		"resolution_latency_milliseconds",
		"End-to-end resolution latency in milliseconds, including the statistics fetch",
		m.histogramBuckets,
	))

	m.statsFetchLatency = auto.NewHistogram(m.histogramOpts(
		"statistics_fetch_latency_milliseconds",
		"Latency of birth statistics fetches in milliseconds",
		m.histogramBuckets,
	))
	m.statsFetchErrors = auto.NewCounterVec(
		m.counterOpts("statistics_fetch_errors_total", "Failed birth statistics fetches by kind"),
		[]string{"kind"},
	)

	m.batchSize = auto.NewHistogram(m.histogramOpts(
		"validation_batch_size",
		"Number of identifiers per batch validation request",
		prometheus.ExponentialBuckets(1, 4, 6),
	))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Total number of errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by HTTP endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	))
}

// RecordValidation counts one checksum validation. reason is empty for valid identifiers.
func RecordValidation(valid bool, reason string) {
	result := ResultInvalid
	if valid {
		result = ResultValid
	}
	globalManager.validations.WithLabelValues(result, reason).Inc()
}

// RecordResolution counts one resolution with its outcome.
func RecordResolution(outcome string) {
	globalManager.resolutions.WithLabelValues(outcome).Inc()
}

// RecordResolutionCandidates records how many candidates survived the checksum.
func RecordResolutionCandidates(n int) {
	globalManager.resolutionCandidates.Observe(float64(n))
}

// RecordResolutionLatency records resolution latency in milliseconds.
func RecordResolutionLatency(latencyMs float64) {
	globalManager.resolutionLatency.Observe(latencyMs)
}

// RecordStatisticsFetchLatency records statistics fetch latency in milliseconds.
func RecordStatisticsFetchLatency(latencyMs float64) {
	globalManager.statsFetchLatency.Observe(latencyMs)
}

// RecordStatisticsFetchError counts a failed statistics fetch.
func RecordStatisticsFetchError(kind string) {
	globalManager.statsFetchErrors.WithLabelValues(kind).Inc()
}

// RecordBatchSize records the size of a batch validation.
func RecordBatchSize(n int) {
	globalManager.batchSize.Observe(float64(n))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
