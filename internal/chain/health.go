package chain

import (
	"context"

	"github.com/gagliardetto/solana-go/rpc"
)

// Ping reports whether the adapter's RPC endpoint is reachable, used as
// the /health backing check (spec §6.1). Unlike the teacher's
// WalletHealthChecker — which polls custodial wallet balances — this
// facilitator holds no wallet, so health is exactly node reachability: a
// cheap getLatestBlockhash call.
func Ping(ctx context.Context, a Adapter) error {
	_, err := a.LatestBlockhash(ctx, rpc.CommitmentProcessed)
	return err
}
