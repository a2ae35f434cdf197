package facilitator

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// decodeSignature validates and parses a base58 transaction signature from
// a URL path segment, rejecting the same shape range the scheme engines do
// (87-88 base58 characters for a 64-byte ed25519 signature).
func decodeSignature(s string) (solana.Signature, error) {
	if l := len(s); l < 87 || l > 88 {
		return solana.Signature{}, fmt.Errorf("signature %q has invalid length", s)
	}
	if _, err := base58.Decode(s); err != nil {
		return solana.Signature{}, fmt.Errorf("signature %q is not valid base58: %w", s, err)
	}
	return solana.SignatureFromBase58(s)
}
