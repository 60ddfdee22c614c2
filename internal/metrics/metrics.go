// Package metrics exposes Prometheus collectors for tool invocations.
package metrics

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hamzaessahbaoui/twitter-mcp/pkg/failure"
	"github.com/hamzaessahbaoui/twitter-mcp/toolkit"
)

const namespace = "twitter_mcp"

// Outcome label values.
const (
	OutcomeSuccess     = "success"
	OutcomeError       = "error"
	OutcomeRateLimited = "rate_limited"
)

// Recorder records tool invocations on its own registry.
type Recorder struct {
	registry    *prometheus.Registry
	invocations *prometheus.CounterVec
	rateLimited *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewRecorder creates a Recorder with a private registry that also carries
// the Go runtime and process collectors.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tool_invocations_total",
				Help:      "Executed tool calls by outcome.",
			},
			[]string{"tool", "outcome"},
		),
		rateLimited: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tool_rate_limited_total",
				Help:      "Tool calls rejected by the remote API for rate limiting.",
			},
			[]string{"tool"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tool_invocation_duration_seconds",
				Help:      "Time spent executing a tool call.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"tool"},
		),
	}
	reg.MustRegister(
		r.invocations,
		r.rateLimited,
		r.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Observe matches toolkit.Observer.
func (r *Recorder) Observe(tool string, result toolkit.Result, elapsed time.Duration) {
	if r == nil {
		return
	}
	outcome := Outcome(result)
	r.invocations.WithLabelValues(tool, outcome).Inc()
	if outcome == OutcomeRateLimited {
		r.rateLimited.WithLabelValues(tool).Inc()
	}
	r.duration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Outcome classifies a result for the outcome label.
func Outcome(result toolkit.Result) string {
	if !result.IsError {
		return OutcomeSuccess
	}
	var env struct {
		ErrorType string `json:"error_type"`
	}
	if err := json.Unmarshal([]byte(result.Content), &env); err == nil && env.ErrorType == failure.ErrorTypeRateLimit {
		return OutcomeRateLimited
	}
	return OutcomeError
}
