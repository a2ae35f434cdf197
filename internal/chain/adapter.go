// Package chain implements Component B, the Chain Adapter: one instance
// per configured Solana network, exposing exactly the RPC operations the
// scheme engines need and nothing else.
package chain

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Adapter is the per-network capability surface a scheme engine is given.
// No method does anything beyond what its name says: no business logic,
// no knowledge of schemes or payloads. Implementations wrap their own
// transient-error retry, circuit breaker and metrics around the
// underlying RPC client (see solana.go).
type Adapter interface {
	// Network returns the adapter's configured network identifier.
	Network() string

	// LatestBlockhash fetches a recent blockhash for transaction
	// construction, at the given commitment level.
	LatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (solana.Hash, error)

	// GetTransaction looks up a transaction by signature. ok=false with a
	// nil error means the signature is unknown to the node (the
	// idempotency-probe "miss" case); any other failure is returned as
	// an error.
	GetTransaction(ctx context.Context, signature solana.Signature, commitment rpc.CommitmentType) (tx *rpc.GetTransactionResult, ok bool, err error)

	// SendRawTransaction submits an already-serialized transaction and
	// returns its signature.
	SendRawTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)

	// ConfirmTransaction blocks until signature reaches commitment, the
	// blockhash validity window elapses, or ctx is done.
	ConfirmTransaction(ctx context.Context, signature solana.Signature, commitment rpc.CommitmentType) error

	// GetSignatureStatus reports the last known status for signature
	// without blocking.
	GetSignatureStatus(ctx context.Context, signature solana.Signature) (*rpc.SignatureStatusesResult, error)

	// GetMintInfo returns an SPL mint's decimals.
	GetMintInfo(ctx context.Context, mint solana.PublicKey) (decimals uint8, err error)

	// GetParsedAccount fetches raw account info, used to check whether a
	// token account exists before assuming it must be created.
	GetParsedAccount(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error)

	// Close releases the adapter's underlying connections (the websocket
	// subscription client). Safe to call once during shutdown.
	Close() error
}
