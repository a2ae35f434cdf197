package x402

import (
	"encoding/base64"
	"testing"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		p    *PaymentPayload
	}{
		{
			name: "solana-transfer",
			p: &PaymentPayload{
				X402Version: 1,
				Scheme:      SchemeSolanaTransfer,
				Network:     NetworkMainnet,
				Payload: TransferPayload{
					From:      "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM",
					Signature: "4ek1btn6NHn6fCAYR6PKeg2rn9tpXwSWMsJiHyPwLYniutHg7CmzkxALhi7NTPLrYBw7SHVUW7kJ8f2hVNiQuDCf",
					Amount:    "1000000000",
					Timestamp: 1700000000000,
				},
			},
		},
		{
			name: "solana-spl",
			p: &PaymentPayload{
				X402Version: 1,
				Scheme:      SchemeSolanaSPL,
				Network:     NetworkDevnet,
				Payload: SPLPayload{
					TransferPayload: TransferPayload{
						From:      "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM",
						Signature: "4ek1btn6NHn6fCAYR6PKeg2rn9tpXwSWMsJiHyPwLYniutHg7CmzkxALhi7NTPLrYBw7SHVUW7kJ8f2hVNiQuDCf",
						Amount:    "1000000",
						Timestamp: 1700000000000,
						Nonce:     "abc123",
					},
					Mint:             "4zMMC9srt5Ri5X14GAgXhaHii3GnPAEERYPJgZJDncDU",
					FromTokenAccount: "AATokenAccountFrom11111111111111111111111",
					ToTokenAccount:   "AATokenAccountTo111111111111111111111111",
				},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			header, err := Encode(tc.p)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := Decode(header)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got.X402Version != tc.p.X402Version || got.Scheme != tc.p.Scheme || got.Network != tc.p.Network {
				t.Fatalf("envelope mismatch: got %+v, want %+v", got, tc.p)
			}
			switch tc.p.Scheme {
			case SchemeSolanaTransfer:
				tp, ok := got.Transfer()
				if !ok {
					t.Fatalf("expected transfer payload")
				}
				if tp != tc.p.Payload.(TransferPayload) {
					t.Fatalf("transfer payload mismatch: got %+v, want %+v", tp, tc.p.Payload)
				}
			case SchemeSolanaSPL:
				sp, ok := got.SPL()
				if !ok {
					t.Fatalf("expected spl payload")
				}
				if sp != tc.p.Payload.(SPLPayload) {
					t.Fatalf("spl payload mismatch: got %+v, want %+v", sp, tc.p.Payload)
				}
			}
		})
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   ErrorCode
	}{
		{"empty", "", ErrInvalidPayload},
		{"not-base64", "!!!not-base64!!!", ErrInvalidPayload},
		{"not-json", "bm90IGpzb24=", ErrInvalidPayload},
		{"unknown-scheme", mustEncodeRaw(t, `{"x402Version":1,"scheme":"eth-transfer","network":"solana-mainnet","payload":{}}`), ErrInvalidScheme},
		{"bad-version", mustEncodeRaw(t, `{"x402Version":2,"scheme":"solana-transfer","network":"solana-mainnet","payload":{}}`), ErrUnsupportedX402Version},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.header)
			if err == nil {
				t.Fatalf("expected error")
			}
			if CodeOf(err) != tc.want {
				t.Fatalf("got code %s, want %s", CodeOf(err), tc.want)
			}
		})
	}
}

func mustEncodeRaw(t *testing.T, jsonStr string) string {
	t.Helper()
	return base64.StdEncoding.EncodeToString([]byte(jsonStr))
}
