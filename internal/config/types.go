package config

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration to support string-based YAML decoding.
// Kept verbatim from the teacher: the same "5m" or "30" (bare-seconds)
// parsing convention.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		raw := strings.TrimSpace(value.Value)
		if raw == "" {
			d.Duration = 0
			return nil
		}
		parsed, err := time.ParseDuration(raw)
		if err == nil {
			d.Duration = parsed
			return nil
		}
		secs, convErr := time.ParseDuration(fmt.Sprintf("%ss", raw))
		if convErr == nil {
			d.Duration = secs
			return nil
		}
		return fmt.Errorf("invalid duration value %q: %w", raw, err)
	default:
		return fmt.Errorf("unsupported duration node kind: %v", value.Kind)
	}
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Config aggregates the facilitator's configuration surface: almost
// entirely env-var driven (spec §6.4), with an optional YAML file layered
// underneath for per-network RPC overrides that don't fit comfortably in
// flat env vars.
type Config struct {
	Server         ServerConfig                  `yaml:"server"`
	Logging        LoggingConfig                 `yaml:"logging"`
	Networks       map[string]NetworkConfig      `yaml:"networks"`
	Metrics        MetricsConfig                 `yaml:"metrics"`
	RateLimit      RateLimitConfig               `yaml:"rate_limit"`
	CircuitBreaker CircuitBreakerConfig          `yaml:"circuit_breaker"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address            string   `yaml:"address"`
	ReadTimeout         Duration `yaml:"read_timeout"`
	WriteTimeout        Duration `yaml:"write_timeout"`
	IdleTimeout         Duration `yaml:"idle_timeout"`
	DiscoveryTimeout    Duration `yaml:"discovery_timeout"`    // /supported, /health
	VerifyTimeout       Duration `yaml:"verify_timeout"`       // /verify — no chain submission, just reads
	SettleTimeout       Duration `yaml:"settle_timeout"`       // /settle — submission + confirmation
	CORSAllowedOrigins  []string `yaml:"cors_allowed_origins"`
}

// NetworkConfig is one configured Solana cluster's RPC/WS endpoints.
type NetworkConfig struct {
	RPCURL string `yaml:"rpc_url"`
	WSURL  string `yaml:"ws_url"` // optional; derived from RPCURL if empty
}

// LoggingConfig holds structured logging configuration.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	Environment string `yaml:"environment"`
}

// MetricsConfig controls the /metrics endpoint.
type MetricsConfig struct {
	Enabled     bool   `yaml:"enabled"`
	AdminAPIKey string `yaml:"admin_api_key"` // optional; protects /metrics if set
}

// RateLimitConfig holds the global rate limiter's settings. Per-wallet/
// per-API-key tiers are dropped (see DESIGN.md "Dropped teacher
// dependencies") — a facilitator has no notion of a trusted partner tier.
type RateLimitConfig struct {
	GlobalEnabled bool     `yaml:"global_enabled"`
	GlobalLimit   int      `yaml:"global_limit"`
	GlobalWindow  Duration `yaml:"global_window"`
}

// CircuitBreakerConfig configures the single Solana RPC breaker pool
// (internal/circuitbreaker.Manager, one breaker per network).
type CircuitBreakerConfig struct {
	Enabled             bool     `yaml:"enabled"`
	MaxRequests         uint32   `yaml:"max_requests"`
	Interval            Duration `yaml:"interval"`
	Timeout             Duration `yaml:"timeout"`
	ConsecutiveFailures uint32   `yaml:"consecutive_failures"`
	FailureRatio        float64  `yaml:"failure_ratio"`
	MinRequests         float64  `yaml:"min_requests"`
}
