package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	CasesCreated        prometheus.Counter
	CalculationsTotal   prometheus.Counter
	CalculationFailures prometheus.Counter
	CalculationSeconds  prometheus.Histogram
	RequestSeconds      *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		CasesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "souzoku_cases_created_total",
			Help: "Total number of inheritance cases created.",
		}),
		CalculationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "souzoku_calculations_total",
			Help: "Total number of inheritance calculations performed.",
		}),
		CalculationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "souzoku_calculation_failures_total",
			Help: "Total number of inheritance calculations that failed.",
		}),
		CalculationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "souzoku_calculation_duration_seconds",
			Help:    "Wall-clock duration of inheritance calculations.",
			Buckets: prometheus.DefBuckets,
		}),
		RequestSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "souzoku_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}
