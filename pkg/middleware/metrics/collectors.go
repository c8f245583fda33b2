package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	responseTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "btnify_http_response_time_seconds",
			Help:    "http response time.",
			Buckets: []float64{0.005, 0.05, 0.5, 1, 5, 30},
		},
	)

	totalHttpRequestsToUri = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "btnify_http_requests_to_uri_total", Help: "http requests to uri"},
		[]string{"code", "uri", "method"},
	)

	totalHttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "btnify_http_requests_total", Help: "http requests by code, and method"},
		[]string{"code", "method"},
	)

	clicks = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "btnify_clicks_total", Help: "button clicks by handler kind and outcome"},
		[]string{"kind", "outcome"},
	)

	clickDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "btnify_click_duration_seconds",
			Help:    "time spent resolving and running a click handler.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(
		responseTime,
		totalHttpRequestsToUri,
		totalHttpRequests,
		clicks,
		clickDuration,
	)
}
