// Package ratelimit provides the facilitator's single global request
// limiter. Grounded on internal/ratelimit/middleware.go's GlobalLimiter,
// trimmed to the global tier only: a Facilitator has no wallet or API-key
// identity to key a per-caller limiter on (see DESIGN.md "Dropped teacher
// dependencies" — per-wallet/per-IP tiers assumed a trusted-partner program
// that doesn't exist here).
package ratelimit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/x402-solana/facilitator/internal/metrics"
)

// Config holds the global rate limiter's settings.
type Config struct {
	Enabled bool
	Limit   int
	Window  time.Duration
	Metrics *metrics.Metrics
}

type rateLimitResponse struct {
	Error             string `json:"error"`
	Message           string `json:"message"`
	RetryAfterSeconds int    `json:"retry_after_seconds"`
}

// GlobalLimiter returns middleware enforcing cfg's global limit, or a no-op
// passthrough if disabled.
func GlobalLimiter(cfg Config) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(
		cfg.Limit,
		cfg.Window,
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Metrics != nil {
				cfg.Metrics.ObserveRateLimit("global")
			}
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(cfg.Window.Seconds())))
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(rateLimitResponse{
				Error:             "rate_limit_exceeded",
				Message:           "rate limit exceeded, try again later",
				RetryAfterSeconds: int(cfg.Window.Seconds()),
			})
		}),
	)
}
