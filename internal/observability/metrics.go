package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	moduleRequestsTotal  *prometheus.CounterVec
	moduleLatencySeconds *prometheus.HistogramVec
	moduleErrorsTotal    *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors for the module
// content endpoints.
func RegisterMetrics() {
	registerOnce.Do(func() {
		moduleRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "module_requests_total",
			Help: "Total number of module content API requests served.",
		}, []string{"method", "route", "status"})

		moduleLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "module_latency_seconds",
			Help:    "Latency distribution for module content API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		moduleErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "module_errors_total",
			Help: "Total number of error responses returned by module content endpoints.",
		}, []string{"method", "route", "status"})

		prometheus.MustRegister(moduleRequestsTotal, moduleLatencySeconds, moduleErrorsTotal)
	})
}

// ModuleRequests exposes the counter for module content requests.
func ModuleRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return moduleRequestsTotal
}

// ModuleLatency exposes the latency histogram for module content requests.
func ModuleLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return moduleLatencySeconds
}

// ModuleErrors exposes the counter for module content error responses.
func ModuleErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return moduleErrorsTotal
}
