package x402

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// ToAtomic converts a decimal major-unit string (e.g. "0.25") into its
// atomic integer representation at the given number of decimals (9 for
// lamports, a mint's reported decimals for SPL tokens). Extra fractional
// digits beyond decimals are rounded half-up, matching
// internal/money.FromMajor's convention.
func ToAtomic(major string, decimals uint8) (*big.Int, error) {
	s := strings.TrimSpace(major)
	if s == "" {
		return nil, fmt.Errorf("x402: empty amount")
	}
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	parts := strings.SplitN(s, ".", 2)
	if len(parts) > 2 {
		return nil, fmt.Errorf("x402: malformed amount %q", major)
	}
	intPart := parts[0]
	if intPart == "" {
		intPart = "0"
	}
	if _, ok := new(big.Int).SetString(intPart, 10); !ok {
		return nil, fmt.Errorf("x402: malformed amount %q", major)
	}
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
		if fracPart != "" {
			if _, ok := new(big.Int).SetString(fracPart, 10); !ok {
				return nil, fmt.Errorf("x402: malformed amount %q", major)
			}
		}
	}

	roundUp := false
	if len(fracPart) > int(decimals) {
		roundUp = fracPart[decimals] >= '5'
		fracPart = fracPart[:decimals]
	} else {
		fracPart += strings.Repeat("0", int(decimals)-len(fracPart))
	}

	atomic, ok := new(big.Int).SetString(intPart+fracPart, 10)
	if !ok {
		return nil, fmt.Errorf("x402: malformed amount %q", major)
	}
	if roundUp {
		atomic.Add(atomic, big.NewInt(1))
	}
	if neg {
		atomic.Neg(atomic)
	}
	return atomic, nil
}

var positiveDecimalPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// IsPositiveDecimal reports whether s parses as a positive finite decimal,
// per PaymentRequirement invariant 4 (maxAmountRequired, spec §3.1).
func IsPositiveDecimal(s string) bool {
	s = strings.TrimSpace(s)
	if !positiveDecimalPattern.MatchString(s) {
		return false
	}
	f, ok := new(big.Float).SetString(s)
	if !ok {
		return false
	}
	return f.Sign() > 0
}
