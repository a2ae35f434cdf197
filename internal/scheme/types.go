// Package scheme implements Component C, the Scheme Engines: the
// scheme/network-specific logic that turns a decoded PaymentPayload and its
// PaymentRequirement into a verify or settle verdict.
package scheme

import (
	"context"

	"github.com/x402-solana/facilitator/pkg/x402"
)

// VerifyResult is the outcome of an engine's Verify call (spec §4.C, §6.2).
type VerifyResult struct {
	IsValid       bool
	InvalidReason string
	ErrorCode     x402.ErrorCode
	Payer         string
}

// SettleResult is the outcome of an engine's Settle call (spec §4.C, §6.3).
type SettleResult struct {
	Success     bool
	ErrorReason string
	ErrorCode   x402.ErrorCode
	Transaction string
	Network     x402.Network
	Payer       string
}

// Engine implements verification and settlement for one (scheme, network)
// pair. Both methods take the asset's atomic-unit decimals — always 9 for
// solana-transfer (lamports), resolved by the Facilitator Service for
// solana-spl (spec §4.C: "the signatures differ only in that the SPL
// engine accepts a tokenDecimals parameter resolved by the Facilitator").
// Verify never touches the chain beyond address derivation; Settle may
// submit and confirm a transaction.
type Engine interface {
	Scheme() x402.Scheme
	Network() x402.Network
	Verify(ctx context.Context, payload *x402.PaymentPayload, req *x402.PaymentRequirement, decimals uint8) (*VerifyResult, error)
	Settle(ctx context.Context, payload *x402.PaymentPayload, req *x402.PaymentRequirement, decimals uint8) (*SettleResult, error)
}

func rejectVerify(code x402.ErrorCode) (*VerifyResult, error) {
	return &VerifyResult{IsValid: false, InvalidReason: code.Message(), ErrorCode: code}, nil
}

func rejectSettle(code x402.ErrorCode, payer string) (*SettleResult, error) {
	return &SettleResult{Success: false, ErrorReason: code.Message(), ErrorCode: code, Payer: payer}, nil
}
