package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusRecorder implements the Recorder interface using Prometheus
// metrics. Register exactly one per process; promauto registers the
// collectors globally.
type PrometheusRecorder struct {
	requestsTotal   *prometheus.CounterVec
	tokensTotal     *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewPrometheusRecorder creates a new Prometheus-based metrics recorder.
func NewPrometheusRecorder() *PrometheusRecorder {
	return &PrometheusRecorder{
		requestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_requests_total",
				Help: "Total number of LLM requests by model, game, bot, and status",
			},
			[]string{"model", "game_id", "bot_id", "status", "error_type"},
		),
		tokensTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_tokens_total",
				Help: "Total number of tokens used in LLM requests",
			},
			[]string{"model", "game_id", "bot_id", "type"},
		),
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "llm_request_duration_seconds",
				Help:    "Duration of LLM requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"model", "game_id", "bot_id"},
		),
	}
}

// ObserveRequest records metrics for a completed LLM call.
func (p *PrometheusRecorder) ObserveRequest(
	model, gameID, botID string,
	promptTokens, completionTokens int,
	success bool,
	errorType string,
	duration time.Duration,
) {
	status := statusSuccess
	if !success {
		status = statusError
	}

	p.requestsTotal.WithLabelValues(model, gameID, botID, status, errorType).Inc()

	if success {
		p.tokensTotal.WithLabelValues(model, gameID, botID, "prompt").Add(float64(promptTokens))
		p.tokensTotal.WithLabelValues(model, gameID, botID, "completion").Add(float64(completionTokens))
	}

	p.requestDuration.WithLabelValues(model, gameID, botID).Observe(duration.Seconds())
}
