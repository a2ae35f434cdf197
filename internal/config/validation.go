package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that the configuration is internally consistent before
// cmd/facilitator/main.go wires up adapters and engines from it. Grounded
// on internal/config/validation.go's errs-slice-then-join shape, trimmed to
// what a facilitator actually needs enforced (no Stripe keys, no product
// catalog, no stablecoin mint allowlist — those are resource-server
// concerns the spec places out of scope).
func (c *Config) Validate() error {
	var errs []string

	if len(c.Networks) == 0 {
		errs = append(errs, "at least one network must be configured (SOLANA_MAINNET_RPC_URL, SOLANA_DEVNET_RPC_URL, or SOLANA_TESTNET_RPC_URL)")
	}
	for name, n := range c.Networks {
		if n.RPCURL == "" {
			errs = append(errs, fmt.Sprintf("network %q has no rpc url", name))
		}
	}

	if c.Server.Address == "" {
		errs = append(errs, "server.address must not be empty")
	}
	if c.Server.SettleTimeout.Duration <= 0 {
		errs = append(errs, "server.settle_timeout must be positive")
	}

	if c.RateLimit.GlobalEnabled && c.RateLimit.GlobalLimit <= 0 {
		errs = append(errs, "rate_limit.global_limit must be positive when rate_limit.global_enabled is true")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
