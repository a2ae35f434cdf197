package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/x402-solana/facilitator/pkg/x402"
)

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over YAML configuration. Grounded
// on internal/config/env.go's setIfEnv/setBoolIfEnv/setDurationIfEnv
// pattern, trimmed to the facilitator's flatter surface (no per-partner
// API-key or Stripe/webhook config exists here).
func (c *Config) applyEnvOverrides() {
	setIfEnv(&c.Server.Address, "SERVER_ADDRESS")
	setDurationIfEnv(&c.Server.ReadTimeout, "SERVER_READ_TIMEOUT")
	setDurationIfEnv(&c.Server.WriteTimeout, "SERVER_WRITE_TIMEOUT")
	setDurationIfEnv(&c.Server.IdleTimeout, "SERVER_IDLE_TIMEOUT")
	setDurationIfEnv(&c.Server.DiscoveryTimeout, "DISCOVERY_TIMEOUT")
	setDurationIfEnv(&c.Server.VerifyTimeout, "VERIFY_TIMEOUT")
	setDurationIfEnv(&c.Server.SettleTimeout, "SETTLE_TIMEOUT")
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.Server.CORSAllowedOrigins = strings.Split(v, ",")
	}

	setIfEnv(&c.Logging.Level, "LOG_LEVEL")
	setIfEnv(&c.Logging.Format, "LOG_FORMAT")
	setIfEnv(&c.Logging.Environment, "ENVIRONMENT")

	c.applyNetworkEnv(x402.NetworkMainnet, "SOLANA_MAINNET")
	c.applyNetworkEnv(x402.NetworkDevnet, "SOLANA_DEVNET")
	c.applyNetworkEnv(x402.NetworkTestnet, "SOLANA_TESTNET")

	setBoolIfEnv(&c.Metrics.Enabled, "METRICS_ENABLED")
	setIfEnv(&c.Metrics.AdminAPIKey, "ADMIN_METRICS_API_KEY")

	setBoolIfEnv(&c.RateLimit.GlobalEnabled, "RATE_LIMIT_GLOBAL_ENABLED")
	setIntIfEnv(&c.RateLimit.GlobalLimit, "RATE_LIMIT_GLOBAL_LIMIT")
	setDurationIfEnv(&c.RateLimit.GlobalWindow, "RATE_LIMIT_GLOBAL_WINDOW")

	setBoolIfEnv(&c.CircuitBreaker.Enabled, "CIRCUIT_BREAKER_ENABLED")
	setDurationIfEnv(&c.CircuitBreaker.Timeout, "CIRCUIT_BREAKER_TIMEOUT")
}

// applyNetworkEnv reads <prefix>_RPC_URL and <prefix>_WS_URL for one
// network, adding it to c.Networks only if an RPC URL is configured — this
// is how the facilitator decides which networks to stand up an Adapter for
// (see cmd/facilitator/main.go), rather than a separate enable flag.
func (c *Config) applyNetworkEnv(network x402.Network, prefix string) {
	rpcURL := os.Getenv(prefix + "_RPC_URL")
	if rpcURL == "" {
		return
	}
	if c.Networks == nil {
		c.Networks = make(map[string]NetworkConfig)
	}
	c.Networks[string(network)] = NetworkConfig{
		RPCURL: rpcURL,
		WSURL:  os.Getenv(prefix + "_WS_URL"),
	}
}

func setIfEnv(target *string, key string) {
	if val := os.Getenv(key); val != "" {
		*target = val
	}
}

func setBoolIfEnv(target *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v == "1" || strings.EqualFold(v, "true")
	}
}

func setIntIfEnv(target *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}

func setDurationIfEnv(target *Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if dur, err := time.ParseDuration(v); err == nil {
			*target = Duration{Duration: dur}
		}
	}
}
