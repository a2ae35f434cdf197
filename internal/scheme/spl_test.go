package scheme

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/x402-solana/facilitator/pkg/x402"
)

func splRequirement() *x402.PaymentRequirement {
	return &x402.PaymentRequirement{
		Scheme:            x402.SchemeSolanaSPL,
		Network:           x402.NetworkDevnet,
		MaxAmountRequired: "1.0",
		PayTo:             testPayTo,
		Asset:             testMint,
	}
}

func splPayload(t *testing.T, mutate func(*x402.SPLPayload)) *x402.PaymentPayload {
	t.Helper()
	from, err := solana.PublicKeyFromBase58(testFrom)
	if err != nil {
		t.Fatalf("parse testFrom: %v", err)
	}
	payTo, err := solana.PublicKeyFromBase58(testPayTo)
	if err != nil {
		t.Fatalf("parse testPayTo: %v", err)
	}
	mint, err := solana.PublicKeyFromBase58(testMint)
	if err != nil {
		t.Fatalf("parse testMint: %v", err)
	}
	fromATA, _, err := solana.FindAssociatedTokenAddress(from, mint)
	if err != nil {
		t.Fatalf("derive fromATA: %v", err)
	}
	toATA, _, err := solana.FindAssociatedTokenAddress(payTo, mint)
	if err != nil {
		t.Fatalf("derive toATA: %v", err)
	}

	sp := x402.SPLPayload{
		TransferPayload: x402.TransferPayload{
			From:      testFrom,
			Signature: testSig88,
			Amount:    "1000000", // 1 USDC at 6 decimals
			Timestamp: nowUnix(),
		},
		Mint:             testMint,
		FromTokenAccount: fromATA.String(),
		ToTokenAccount:   toATA.String(),
	}
	if mutate != nil {
		mutate(&sp)
	}
	return &x402.PaymentPayload{X402Version: 1, Scheme: x402.SchemeSolanaSPL, Network: x402.NetworkDevnet, Payload: sp}
}

func TestSPLEngineVerifyAccepts(t *testing.T) {
	adapter := &mockAdapter{network: "solana-devnet", mintDecimals: 6}
	e := NewSPLEngine(x402.NetworkDevnet, adapter)
	res, err := e.Verify(context.Background(), splPayload(t, nil), splRequirement(), 6)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !res.IsValid {
		t.Fatalf("Verify() IsValid = false, reason %q code %q", res.InvalidReason, res.ErrorCode)
	}
}

func TestSPLEngineVerifyRejects(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(*x402.SPLPayload)
		wantCode x402.ErrorCode
	}{
		{
			name:     "mint mismatch",
			mutate:   func(sp *x402.SPLPayload) { sp.Mint = testFrom },
			wantCode: x402.ErrMintMismatch,
		},
		{
			name:     "wrong from token account",
			mutate:   func(sp *x402.SPLPayload) { sp.FromTokenAccount = testPayTo },
			wantCode: x402.ErrInvalidFromTokenAccount,
		},
		{
			name:     "wrong to token account",
			mutate:   func(sp *x402.SPLPayload) { sp.ToTokenAccount = testFrom },
			wantCode: x402.ErrInvalidToTokenAccount,
		},
		{
			name:     "amount below required",
			mutate:   func(sp *x402.SPLPayload) { sp.Amount = "999999" },
			wantCode: x402.ErrInsufficientAmount,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			adapter := &mockAdapter{network: "solana-devnet", mintDecimals: 6}
			e := NewSPLEngine(x402.NetworkDevnet, adapter)
			res, err := e.Verify(context.Background(), splPayload(t, tc.mutate), splRequirement(), 6)
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if res.IsValid {
				t.Fatalf("Verify() IsValid = true, want false (code %q)", tc.wantCode)
			}
			if res.ErrorCode != tc.wantCode {
				t.Errorf("Verify() ErrorCode = %q, want %q", res.ErrorCode, tc.wantCode)
			}
		})
	}
}

func TestSPLEngineSettleIdempotentHit(t *testing.T) {
	adapter := &mockAdapter{network: "solana-devnet", mintDecimals: 6, txFound: true}
	e := NewSPLEngine(x402.NetworkDevnet, adapter)
	res, err := e.Settle(context.Background(), splPayload(t, nil), splRequirement(), 6)
	if err != nil {
		t.Fatalf("Settle() error = %v", err)
	}
	if !res.Success {
		t.Fatalf("Settle() Success = false, reason %q", res.ErrorReason)
	}
}
