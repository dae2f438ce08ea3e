package metrics

import "github.com/prometheus/client_golang/prometheus"

// Places provider Prometheus metrics.
var (
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "placeqa",
			Name:      "provider_requests_total",
			Help:      "Total number of places provider requests",
		},
		[]string{"endpoint", "status"},
	)

	ProviderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "placeqa",
			Name:      "provider_request_duration_seconds",
			Help:      "Places provider request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	ProviderErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "placeqa",
			Name:      "provider_errors_total",
			Help:      "Total places provider errors",
		},
		[]string{"endpoint", "error_type"},
	)

	ProviderCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "placeqa",
			Name:      "provider_cache_total",
			Help:      "Provider response cache hits and misses",
		},
		[]string{"endpoint", "result"}, // "hit" / "miss"
	)
)

// Assessment Prometheus metrics.
var (
	AssessmentScore = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "placeqa",
			Name:      "assessment_score_percent",
			Help:      "Overall quality score of completed assessments",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"source"}, // "live" / "offline"
	)

	AssessmentBusinesses = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "placeqa",
			Name:      "assessment_businesses",
			Help:      "Number of businesses in the working set per assessment",
			Buckets:   []float64{0, 5, 10, 20, 30, 40, 50},
		},
	)

	AssessmentIssuesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "placeqa",
			Name:      "assessment_issues_total",
			Help:      "Total data quality issues found, by kind",
		},
		[]string{"kind"},
	)
)

var domainMetricsRegistered bool

// RegisterDomainMetrics registers provider and assessment metrics. Must be called once from main.
func RegisterDomainMetrics() {
	if domainMetricsRegistered {
		return
	}
	prometheus.MustRegister(ProviderRequestsTotal)
	prometheus.MustRegister(ProviderRequestDuration)
	prometheus.MustRegister(ProviderErrorsTotal)
	prometheus.MustRegister(ProviderCacheTotal)
	prometheus.MustRegister(AssessmentScore)
	prometheus.MustRegister(AssessmentBusinesses)
	prometheus.MustRegister(AssessmentIssuesTotal)
	domainMetricsRegistered = true
}
