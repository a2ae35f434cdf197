// Package circuitbreaker wraps gobreaker with a per-network registry, so
// a single slow or down RPC endpoint can't cascade into every request the
// facilitator handles.
package circuitbreaker

import (
	"fmt"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig configures a single circuit breaker.
type BreakerConfig struct {
	// MaxRequests allowed through while half-open. Default 1.
	MaxRequests uint32
	// Interval is the closed-state window after which counts reset. 0 never resets.
	Interval time.Duration
	// Timeout is how long the breaker stays open before trying half-open.
	Timeout time.Duration
	// ConsecutiveFailures trips the breaker once reached.
	ConsecutiveFailures uint32
	// FailureRatio trips the breaker once Requests >= MinRequests and the
	// failure rate reaches this ratio.
	FailureRatio float64
	MinRequests  float64
}

// DefaultBreakerConfig mirrors conservative defaults suitable for a
// third-party Solana RPC endpoint.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:         3,
		Interval:            60 * time.Second,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
		FailureRatio:        0.5,
		MinRequests:         10,
	}
}

// Manager holds one circuit breaker per network (mainnet/devnet/testnet),
// created lazily on first use so callers don't have to enumerate networks
// up front.
type Manager struct {
	mu       sync.Mutex
	cfg      BreakerConfig
	enabled  bool
	breakers map[string]*gobreaker.CircuitBreaker
}

func NewManager(enabled bool, cfg BreakerConfig) *Manager {
	return &Manager{
		cfg:      cfg,
		enabled:  enabled,
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
}

// Execute runs fn through network's breaker, creating it on first use. If
// the manager is disabled, fn runs directly with no breaker bookkeeping.
func (m *Manager) Execute(network string, fn func() (any, error)) (any, error) {
	if !m.enabled {
		return fn()
	}
	return m.breakerFor(network).Execute(fn)
}

// State reports the breaker's current state for network ("disabled" if
// the manager itself is disabled).
func (m *Manager) State(network string) string {
	if !m.enabled {
		return "disabled"
	}
	return m.breakerFor(network).State().String()
}

func (m *Manager) breakerFor(network string) *gobreaker.CircuitBreaker {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.breakers[network]
	if !ok {
		b = gobreaker.NewCircuitBreaker(toGobreakerSettings(network, m.cfg))
		m.breakers[network] = b
	}
	return b
}

func toGobreakerSettings(name string, cfg BreakerConfig) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if cfg.ConsecutiveFailures > 0 && counts.ConsecutiveFailures >= cfg.ConsecutiveFailures {
				return true
			}
			if cfg.FailureRatio > 0 && cfg.MinRequests > 0 {
				if float64(counts.Requests) >= cfg.MinRequests {
					failureRate := float64(counts.TotalFailures) / float64(counts.Requests)
					if failureRate >= cfg.FailureRatio {
						return true
					}
				}
			}
			return false
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			fmt.Printf("circuit breaker %s: %s -> %s\n", name, from.String(), to.String())
		},
	}
}
