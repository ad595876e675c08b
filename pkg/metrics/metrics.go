package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Provider API metrics
	ProviderCalls    *prometheus.CounterVec
	ProviderDuration *prometheus.HistogramVec
	ProviderFailures *prometheus.CounterVec

	// Report metrics
	ReportsGenerated  *prometheus.CounterVec
	ReportDuration    *prometheus.HistogramVec
	ReportsInProgress prometheus.Gauge
	SectionsEmitted   *prometheus.CounterVec

	// Availability probes
	ProbesTotal *prometheus.CounterVec

	// Narrative generation
	NarrativesGenerated *prometheus.CounterVec

	// Cache metrics
	CacheLookups *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		ProviderCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "provider_api_calls_total",
				Help: "Total number of analytics provider API calls",
			},
			[]string{"endpoint", "status"},
		),

		ProviderDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "provider_api_duration_seconds",
				Help:    "Analytics provider API call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),

		ProviderFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "provider_api_failures_total",
				Help: "Total number of analytics provider failures",
			},
			[]string{"endpoint", "error_type"},
		),

		ReportsGenerated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reports_generated_total",
				Help: "Total number of report generations",
			},
			[]string{"status"},
		),

		ReportDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "report_duration_seconds",
				Help:    "Report generation duration in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
			},
			[]string{"status"},
		),

		ReportsInProgress: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "reports_in_progress",
				Help: "Number of report generations currently in progress",
			},
		),

		SectionsEmitted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "report_sections_emitted_total",
				Help: "Total number of report sections emitted",
			},
			[]string{"network", "state"},
		),

		ProbesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "availability_probes_total",
				Help: "Total number of network availability probes",
			},
			[]string{"network", "result"},
		),

		NarrativesGenerated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "narratives_generated_total",
				Help: "Total number of narrative generations",
			},
			[]string{"strategy", "status"},
		),

		CacheLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_lookups_total",
				Help: "Total number of cache lookups",
			},
			[]string{"cache", "result"},
		),
	}
}

// HTTP request metrics
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// Provider API call metrics
func (m *Metrics) RecordProviderCall(endpoint, status string, duration time.Duration) {
	m.ProviderCalls.WithLabelValues(endpoint, status).Inc()
	m.ProviderDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// Provider API failure metrics
func (m *Metrics) RecordProviderFailure(endpoint, errorType string) {
	m.ProviderFailures.WithLabelValues(endpoint, errorType).Inc()
}

// Report generation metrics
func (m *Metrics) RecordReport(status string, duration time.Duration) {
	m.ReportsGenerated.WithLabelValues(status).Inc()
	m.ReportDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// Report section metrics
func (m *Metrics) RecordSection(network, state string) {
	m.SectionsEmitted.WithLabelValues(network, state).Inc()
}

// Availability probe metrics
func (m *Metrics) RecordProbe(network, result string) {
	m.ProbesTotal.WithLabelValues(network, result).Inc()
}

// Narrative generation metrics
func (m *Metrics) RecordNarrative(strategy, status string) {
	m.NarrativesGenerated.WithLabelValues(strategy, status).Inc()
}

// Cache lookup metrics
func (m *Metrics) RecordCacheLookup(cache, result string) {
	m.CacheLookups.WithLabelValues(cache, result).Inc()
}

// Reports in progress counter
func (m *Metrics) IncReportsInProgress() {
	m.ReportsInProgress.Inc()
}

// Reports in progress counter
func (m *Metrics) DecReportsInProgress() {
	m.ReportsInProgress.Dec()
}

// HTTP requests in flight counter
func (m *Metrics) IncHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Inc()
}

// HTTP requests in flight counter
func (m *Metrics) DecHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Dec()
}
