package x402

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Validate checks a PaymentRequirement against the four cross-field
// invariants spec §3.1 defines, independent of any chain I/O. A
// resource server's requirement is rejected up front if it fails any of
// these — a scheme engine should never have to guess what a malformed
// requirement meant.
func Validate(r *PaymentRequirement) error {
	switch r.Scheme {
	case SchemeSolanaTransfer, SchemeSolanaSPL:
	default:
		return NewError(ErrInvalidScheme, fmt.Errorf("unknown scheme %q", r.Scheme))
	}

	switch r.Network {
	case NetworkMainnet, NetworkDevnet, NetworkTestnet:
	default:
		return NewError(ErrInvalidNetwork, fmt.Errorf("unknown network %q", r.Network))
	}

	// Invariant: scheme solana-transfer <=> asset == "SOL".
	if r.Scheme == SchemeSolanaTransfer && r.Asset != "SOL" {
		return NewError(ErrInvalidAssetScheme, fmt.Errorf("solana-transfer requires asset \"SOL\", got %q", r.Asset))
	}
	if r.Scheme == SchemeSolanaSPL {
		if r.Asset == "" {
			return NewError(ErrMissingAsset, fmt.Errorf("solana-spl requires a mint address, got %q", r.Asset))
		}
		if r.Asset == "SOL" {
			return NewError(ErrInvalidAssetScheme, fmt.Errorf("solana-spl requires an SPL mint address, got %q", r.Asset))
		}
		if _, err := solana.PublicKeyFromBase58(r.Asset); err != nil {
			return NewError(ErrInvalidAssetScheme, fmt.Errorf("asset %q is not a valid mint address: %w", r.Asset, err))
		}
	}

	// Invariant: payTo is a valid ed25519 public key in base58.
	if _, err := solana.PublicKeyFromBase58(r.PayTo); err != nil {
		return NewError(ErrInvalidPayTo, fmt.Errorf("payTo %q is not a valid public key: %w", r.PayTo, err))
	}

	// Invariant: maxAmountRequired parses to a positive finite decimal.
	if !IsPositiveDecimal(r.MaxAmountRequired) {
		return NewError(ErrInvalidAmount, fmt.Errorf("maxAmountRequired %q is not a positive decimal", r.MaxAmountRequired))
	}

	return nil
}
