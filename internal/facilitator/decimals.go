package facilitator

import (
	"context"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/x402-solana/facilitator/internal/cacheutil"
	"github.com/x402-solana/facilitator/internal/chain"
	"github.com/x402-solana/facilitator/pkg/x402"
)

// knownDecimals seeds the cache with well-known stablecoin mints so the
// common USDC path never touches the chain. Grounded on
// internal/money/stablecoins.go's KnownStablecoins map.
var knownDecimals = map[x402.Network]map[string]uint8{
	x402.NetworkMainnet: {
		"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v": 6, // USDC mainnet
	},
	x402.NetworkDevnet: {
		"4zMMC9srt5Ri5X14GAgXhaHii3GnPAEERYPJgZJDncDU": 6, // USDC devnet
	},
}

// decimalsCache is the write-rarely, read-often map spec §5's
// "Shared-resource policy" describes: populated on miss, never invalidated,
// guarded by a mutex since the facilitator serves requests concurrently
// (goroutine-per-request) rather than single-threaded.
type decimalsCache struct {
	mu    sync.RWMutex
	byKey map[string]uint8
}

func newDecimalsCache() *decimalsCache {
	c := &decimalsCache{byKey: make(map[string]uint8)}
	for network, mints := range knownDecimals {
		for mint, decimals := range mints {
			c.byKey[cacheKey(network, mint)] = decimals
		}
	}
	return c
}

func cacheKey(network x402.Network, mint string) string {
	return string(network) + ":" + mint
}

// resolve returns mint's decimals for network: cache hit first, then
// getMintInfo against adapter, caching the result on success. The cache
// never expires an entry (mint decimals are immutable once set on-chain),
// so the read-through helper's "now" staleness check is unused here; it
// still buys the double-checked locking that protects concurrent misses
// on the same mint from both issuing an RPC call. The caller
// (Service.resolveDecimals) is responsible for spec §4.D step 5's
// "fallback to 9 with warning" when resolve itself returns an error.
func (c *decimalsCache) resolve(ctx context.Context, adapter chain.Adapter, network x402.Network, mint string) (uint8, error) {
	pubkey, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		return 0, x402.NewError(x402.ErrMintMismatch, err)
	}
	key := cacheKey(network, mint)

	return cacheutil.ReadThrough(
		&c.mu,
		func(_ time.Time) (uint8, bool) {
			d, ok := c.byKey[key]
			return d, ok
		},
		func(_ time.Time) (uint8, error) {
			decimals, err := adapter.GetMintInfo(ctx, pubkey)
			if err != nil {
				return 0, err
			}
			c.byKey[key] = decimals
			return decimals, nil
		},
	)
}
