// Package metrics exposes the Prometheus counters/histograms the
// facilitator records around chain RPC calls and verify/settle outcomes.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the facilitator's Prometheus instruments.
type Metrics struct {
	// RPC call metrics
	RPCCallsTotal   *prometheus.CounterVec
	RPCCallDuration *prometheus.HistogramVec
	RPCErrorsTotal  *prometheus.CounterVec

	// Verify/settle outcome metrics
	VerifyTotal      *prometheus.CounterVec
	SettleTotal      *prometheus.CounterVec
	SettleDuration   *prometheus.HistogramVec
	CircuitBreakerOpenTotal *prometheus.CounterVec
	RateLimitHitsTotal      *prometheus.CounterVec
}

// New creates and registers the facilitator's Prometheus metrics.
func New(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		RPCCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "facilitator_rpc_calls_total",
				Help: "Total number of RPC calls to a Solana network",
			},
			[]string{"method", "network"},
		),
		RPCCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "facilitator_rpc_call_duration_seconds",
				Help:    "Duration of RPC calls to a Solana network",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "network"},
		),
		RPCErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "facilitator_rpc_errors_total",
				Help: "Total number of RPC errors by classified type",
			},
			[]string{"method", "network", "error_type"},
		),
		VerifyTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "facilitator_verify_total",
				Help: "Total number of /verify requests by scheme, network, and result",
			},
			[]string{"scheme", "network", "result"},
		),
		SettleTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "facilitator_settle_total",
				Help: "Total number of /settle requests by scheme, network, and result",
			},
			[]string{"scheme", "network", "result"},
		),
		SettleDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "facilitator_settle_duration_seconds",
				Help:    "Time from /settle request to terminal state",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"scheme", "network"},
		),
		CircuitBreakerOpenTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "facilitator_circuit_breaker_open_total",
				Help: "Total number of requests rejected by an open circuit breaker",
			},
			[]string{"network"},
		),
		RateLimitHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "facilitator_rate_limit_hits_total",
				Help: "Total number of requests rejected by the global rate limiter",
			},
			[]string{"limit_type"},
		),
	}
}

// ObserveRPCCall records an RPC call to a Solana network.
func (m *Metrics) ObserveRPCCall(method, network string, duration time.Duration, err error) {
	m.RPCCallsTotal.WithLabelValues(method, network).Inc()
	m.RPCCallDuration.WithLabelValues(method, network).Observe(duration.Seconds())

	if err != nil {
		m.RPCErrorsTotal.WithLabelValues(method, network, classifyError(err)).Inc()
	}
}

// ObserveVerify records a /verify outcome.
func (m *Metrics) ObserveVerify(scheme, network, result string) {
	m.VerifyTotal.WithLabelValues(scheme, network, result).Inc()
}

// ObserveSettle records a /settle outcome and its end-to-end duration.
func (m *Metrics) ObserveSettle(scheme, network, result string, duration time.Duration) {
	m.SettleTotal.WithLabelValues(scheme, network, result).Inc()
	m.SettleDuration.WithLabelValues(scheme, network).Observe(duration.Seconds())
}

// ObserveCircuitBreakerOpen records a request rejected by an open breaker.
func (m *Metrics) ObserveCircuitBreakerOpen(network string) {
	m.CircuitBreakerOpenTotal.WithLabelValues(network).Inc()
}

// ObserveRateLimit records a request rejected by the global rate limiter.
func (m *Metrics) ObserveRateLimit(limitType string) {
	m.RateLimitHitsTotal.WithLabelValues(limitType).Inc()
}

func classifyError(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"):
		return "timeout"
	case strings.Contains(msg, "rate limit"), strings.Contains(msg, "429"):
		return "rate_limit"
	case strings.Contains(msg, "connection"):
		return "connection"
	case strings.Contains(msg, "not found"):
		return "not_found"
	default:
		return "other"
	}
}
