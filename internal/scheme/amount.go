package scheme

import (
	"fmt"
	"math/big"
	"strings"
)

// parseAtomicAmount parses a payload's amount field, which is always a plain
// non-negative integer string in atomic units (lamports, or a token's
// smallest unit) — unlike PaymentRequirement.MaxAmountRequired, which is a
// major-unit decimal and goes through x402.ToAtomic instead.
func parseAtomicAmount(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("amount is empty")
	}
	if strings.ContainsAny(s, ".-+") {
		return nil, fmt.Errorf("amount %q is not a non-negative integer", s)
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("amount %q is not a valid integer", s)
	}
	return n, nil
}
