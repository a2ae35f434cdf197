package x402

import "time"

// Transaction confirmation timeouts and intervals (spec §5).
const (
	// BlockhashValidityWindow is the conservative window for Solana blockhash
	// validity. Blockhashes are valid for ~150 slots (~60s on mainnet); 90s
	// is used as a conservative estimate that also bounds confirmation
	// polling.
	BlockhashValidityWindow = 90 * time.Second

	// RPCPollInterval is how frequently the chain adapter polls
	// getSignatureStatuses when the websocket confirmation path fails.
	RPCPollInterval = 2 * time.Second

	// DefaultSettleTimeout is the default end-to-end timeout for a /settle
	// request (spec §5's "default 30s").
	DefaultSettleTimeout = 30 * time.Second

	// PayloadFreshnessWindow bounds how old a payload's timestamp may be
	// before it's rejected as expired (spec §4.C.1, §8 invariant 7).
	PayloadFreshnessWindow = 5 * time.Minute
)
