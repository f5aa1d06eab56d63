package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the Prometheus instruments shared across components.
type Metrics struct {
	GeminiRequests   *prometheus.CounterVec
	GeminiLatency    *prometheus.HistogramVec
	UpstreamRequests *prometheus.CounterVec
	UpstreamLatency  *prometheus.HistogramVec
	QueriesProcessed *prometheus.CounterVec
	BetsProposed     prometheus.Counter
	BetsSettled      *prometheus.CounterVec
	Errors           *prometheus.CounterVec
}

// New registers every instrument under the given namespace. Tests pass a
// fresh prometheus.NewRegistry to avoid duplicate registration.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		GeminiRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gemini_requests_total",
			Help:      "Gemini API calls by outcome.",
		}, []string{"outcome"}),
		GeminiLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gemini_request_duration_seconds",
			Help:      "Gemini API call latency by HTTP status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		UpstreamRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sports_api_requests_total",
			Help:      "Sports API calls by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		UpstreamLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sports_api_request_duration_seconds",
			Help:      "Sports API call latency by endpoint.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		QueriesProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_processed_total",
			Help:      "Chat queries processed by question type.",
		}, []string{"question_type"}),
		BetsProposed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bets_proposed_total",
			Help:      "Simulated bets proposed and awaiting confirmation.",
		}),
		BetsSettled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bets_settled_total",
			Help:      "Pending bets resolved by outcome (confirmed, failed, cancelled).",
		}, []string{"outcome"}),
		Errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Internal errors by stage.",
		}, []string{"stage"}),
	}
}
