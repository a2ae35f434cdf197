// Package facilitator implements Component D, the Facilitator Service:
// the HTTP-level orchestrator that decodes a payment header, validates it
// against a requirement, routes to the right scheme engine, and exposes
// the result over the surface spec §6.1 defines.
package facilitator

import (
	"time"

	"github.com/x402-solana/facilitator/internal/scheme"
	"github.com/x402-solana/facilitator/pkg/x402"
)

// VerifyRequest is the body of POST /verify and POST /settle (spec §6.1).
type VerifyRequest struct {
	X402Version         int                     `json:"x402Version"`
	PaymentHeader       string                  `json:"paymentHeader"`
	PaymentRequirements x402.PaymentRequirement `json:"paymentRequirements"`
}

// VerifyResponse is the body of a /verify response.
type VerifyResponse struct {
	IsValid       bool    `json:"isValid"`
	InvalidReason *string `json:"invalidReason"`
}

// SettleResponse is the body of a /settle response.
type SettleResponse struct {
	Success   bool    `json:"success"`
	Error     *string `json:"error"`
	TxHash    *string `json:"txHash"`
	NetworkID *string `json:"networkId"`
}

// HealthResponse is the body of a GET /health response. Networks reports
// each configured network's RPC reachability ("ok" or the ping error),
// independent of Status: spec §6.1 treats /health as a liveness probe,
// so a single unreachable network degrades reporting, not the status
// code.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Networks  map[string]string `json:"networks"`
}

// SupportedResponse is the body of a GET /supported response.
type SupportedResponse struct {
	Kinds []scheme.Kind `json:"kinds"`
}

// TransactionResponse is the body of a GET /transaction/{signature} response.
type TransactionResponse struct {
	Confirmed bool    `json:"confirmed"`
	Error     *string `json:"error,omitempty"`
}

// errorBody is the JSON envelope for a non-200 response (missing fields,
// unknown path, internal failure — spec §6.1's 400/404/500 cases). Verify/
// settle verdicts never use this: those ride inside a 200 body regardless
// of outcome.
type errorBody struct {
	Error string `json:"error"`
}
