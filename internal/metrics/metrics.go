package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestCount counts HTTP requests
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration measures HTTP request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP request duration in seconds",
		},
		[]string{"method", "endpoint"},
	)

	// RelayOutcomes counts relay results by method and error code ("ok" on success)
	RelayOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "score_relay_outcomes_total",
			Help: "Total number of relay results by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	// UpstreamDuration measures calls to the sheets webhook
	UpstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "score_relay_upstream_duration_seconds",
			Help:    "Sheets webhook call duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"method", "status_class"},
	)

	initOnce sync.Once
)

// InitPrometheus registers the collectors with the default registry. Safe to
// call more than once.
func InitPrometheus() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestCount)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(RelayOutcomes)
		prometheus.MustRegister(UpstreamDuration)
	})
}

// Handler returns Prometheus metrics handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// StatusClass buckets an HTTP status code as "2xx", "4xx" and so on.
func StatusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
