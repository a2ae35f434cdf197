package scheme

import (
	"context"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/x402-solana/facilitator/pkg/x402"
)

func nowUnix() int64 { return time.Now().UnixMilli() }

const (
	testFrom   = "11111111111111111111111111111111"
	testPayTo  = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	testMint   = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	testSig88  = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz123456789ABCDEFGHJKLMNPQRSTUVW"
)

func transferRequirement() *x402.PaymentRequirement {
	return &x402.PaymentRequirement{
		Scheme:            x402.SchemeSolanaTransfer,
		Network:           x402.NetworkDevnet,
		MaxAmountRequired: "0.000000010", // 10 lamports
		PayTo:             testPayTo,
		Asset:             "SOL",
	}
}

func transferPayload(mutate func(*x402.TransferPayload)) *x402.PaymentPayload {
	tp := x402.TransferPayload{
		From:      testFrom,
		Signature: testSig88,
		Amount:    "10",
		Timestamp: nowUnix(),
	}
	if mutate != nil {
		mutate(&tp)
	}
	return &x402.PaymentPayload{X402Version: 1, Scheme: x402.SchemeSolanaTransfer, Network: x402.NetworkDevnet, Payload: tp}
}

func TestTransferEngineVerifyAccepts(t *testing.T) {
	e := NewTransferEngine(x402.NetworkDevnet, &mockAdapter{network: "solana-devnet"})
	res, err := e.Verify(context.Background(), transferPayload(nil), transferRequirement(), 9)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !res.IsValid {
		t.Fatalf("Verify() IsValid = false, reason %q code %q", res.InvalidReason, res.ErrorCode)
	}
	if res.Payer != testFrom {
		t.Errorf("Verify() Payer = %q, want %q", res.Payer, testFrom)
	}
}

func TestTransferEngineVerifyRejects(t *testing.T) {
	cases := []struct {
		name     string
		network  x402.Network
		mutate   func(*x402.TransferPayload)
		wantCode x402.ErrorCode
	}{
		{
			name:     "network mismatch",
			network:  x402.NetworkMainnet,
			wantCode: x402.ErrNetworkMismatch,
		},
		{
			name:     "signature too short",
			network:  x402.NetworkDevnet,
			mutate:   func(tp *x402.TransferPayload) { tp.Signature = "short" },
			wantCode: x402.ErrInvalidSignature,
		},
		{
			name:     "signature not base58",
			network:  x402.NetworkDevnet,
			mutate:   func(tp *x402.TransferPayload) { tp.Signature = testSig88[:87] + "0" }, // '0' not in base58 alphabet
			wantCode: x402.ErrInvalidSignature,
		},
		{
			name:     "invalid from address",
			network:  x402.NetworkDevnet,
			mutate:   func(tp *x402.TransferPayload) { tp.From = "not-a-pubkey" },
			wantCode: x402.ErrInvalidAddress,
		},
		{
			name:     "amount one lamport short",
			network:  x402.NetworkDevnet,
			mutate:   func(tp *x402.TransferPayload) { tp.Amount = "9" },
			wantCode: x402.ErrInsufficientAmount,
		},
		{
			name:     "amount malformed",
			network:  x402.NetworkDevnet,
			mutate:   func(tp *x402.TransferPayload) { tp.Amount = "10.5" },
			wantCode: x402.ErrInvalidAmount,
		},
		{
			name:     "timestamp too old",
			network:  x402.NetworkDevnet,
			mutate:   func(tp *x402.TransferPayload) { tp.Timestamp = nowUnix() - x402.PayloadFreshnessWindow.Milliseconds() - 60_000 },
			wantCode: x402.ErrPayloadExpired,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := NewTransferEngine(tc.network, &mockAdapter{network: string(tc.network)})
			payload := transferPayload(tc.mutate)
			res, err := e.Verify(context.Background(), payload, transferRequirement(), 9)
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

func TestTransferEngineSettleIdempotentHit(t *testing.T) {
	adapter := &mockAdapter{network: "solana-devnet", txFound: true}
	e := NewTransferEngine(x402.NetworkDevnet, adapter)
	res, err := e.Settle(context.Background(), transferPayload(nil), transferRequirement(), 9)
	if err != nil {
		t.Fatalf("Settle() error = %v", err)
	}
	if !res.Success {
		t.Fatalf("Settle() Success = false, reason %q", res.ErrorReason)
	}
	if res.Transaction != testSig88 {
		t.Errorf("Settle() Transaction = %q, want the probed signature", res.Transaction)
	}
}

func TestTransferEngineSettleRejectsInvalidPayload(t *testing.T) {
	adapter := &mockAdapter{network: "solana-devnet"}
	e := NewTransferEngine(x402.NetworkDevnet, adapter)
	payload := transferPayload(func(tp *x402.TransferPayload) { tp.Amount = "9" })
	res, err := e.Settle(context.Background(), payload, transferRequirement(), 9)
	if err != nil {
		t.Fatalf("Settle() error = %v", err)
	}
	if res.Success {
		t.Fatalf("Settle() Success = true, want false")
	}
	if res.ErrorCode != x402.ErrInsufficientAmount {
		t.Errorf("Settle() ErrorCode = %q, want %q", res.ErrorCode, x402.ErrInsufficientAmount)
	}
}

func TestTransferEngineSettleReconstructAndSubmit(t *testing.T) {
	wantSig := solana.Signature{1, 2, 3}
	adapter := &mockAdapter{
		network:   "solana-devnet",
		txFound:   false,
		blockhash: solana.Hash{4, 5, 6},
		sendSig:   wantSig,
	}
	e := NewTransferEngine(x402.NetworkDevnet, adapter)
	res, err := e.Settle(context.Background(), transferPayload(nil), transferRequirement(), 9)
	if err != nil {
		t.Fatalf("Settle() error = %v", err)
	}
	if !res.Success {
		t.Fatalf("Settle() Success = false, reason %q", res.ErrorReason)
	}
	if res.Transaction != wantSig.String() {
		t.Errorf("Settle() Transaction = %q, want %q", res.Transaction, wantSig.String())
	}
}
