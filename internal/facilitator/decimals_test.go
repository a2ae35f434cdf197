package facilitator

import (
	"context"
	"errors"
	"testing"

	"github.com/x402-solana/facilitator/pkg/x402"
)

func TestDecimalsCacheResolveSeededMint(t *testing.T) {
	c := newDecimalsCache()
	adapter := &mockAdapter{network: "solana-mainnet", mintErr: errors.New("should not be called")}

	d, err := c.resolve(context.Background(), adapter, x402.NetworkMainnet, "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	if err != nil {
		t.Fatalf("resolve() error = %v", err)
	}
	if d != 6 {
		t.Errorf("resolve() = %d, want 6 (seeded USDC mainnet)", d)
	}
}

func TestDecimalsCacheResolveMissFallsThroughToAdapter(t *testing.T) {
	c := newDecimalsCache()
	adapter := &mockAdapter{network: "solana-devnet", mintDecimals: 8}
	mint := "11111111111111111111111111111111"

	d, err := c.resolve(context.Background(), adapter, x402.NetworkDevnet, mint)
	if err != nil {
		t.Fatalf("resolve() error = %v", err)
	}
	if d != 8 {
		t.Errorf("resolve() = %d, want 8 (from adapter)", d)
	}

	// Second call should hit the cache, not the adapter: change the
	// adapter's mintDecimals and confirm the cached value still wins.
	adapter.mintDecimals = 99
	d2, err := c.resolve(context.Background(), adapter, x402.NetworkDevnet, mint)
	if err != nil {
		t.Fatalf("resolve() second call error = %v", err)
	}
	if d2 != 8 {
		t.Errorf("resolve() second call = %d, want 8 (cached, not re-fetched)", d2)
	}
}

func TestDecimalsCacheResolveInvalidMint(t *testing.T) {
	c := newDecimalsCache()
	adapter := &mockAdapter{network: "solana-devnet"}

	_, err := c.resolve(context.Background(), adapter, x402.NetworkDevnet, "not-a-base58-pubkey!!!")
	if err == nil {
		t.Fatal("resolve() error = nil, want error for malformed mint address")
	}
	if x402.CodeOf(err) != x402.ErrMintMismatch {
		t.Errorf("resolve() error code = %q, want %q", x402.CodeOf(err), x402.ErrMintMismatch)
	}
}
