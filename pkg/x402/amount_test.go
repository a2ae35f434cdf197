package x402

import (
	"math/big"
	"testing"
)

func TestToAtomic(t *testing.T) {
	cases := []struct {
		major    string
		decimals uint8
		want     string
	}{
		{"1", 9, "1000000000"},
		{"0.000000001", 9, "1"},
		{"0.0000000004", 9, "0"},  // rounds down
		{"0.0000000005", 9, "1"},  // rounds up (half-up)
		{"1.5", 6, "1500000"},
		{"0", 6, "0"},
		{"123.456789", 6, "123456789"},
	}
	for _, tc := range cases {
		got, err := ToAtomic(tc.major, tc.decimals)
		if err != nil {
			t.Fatalf("ToAtomic(%q, %d): %v", tc.major, tc.decimals, err)
		}
		want, _ := new(big.Int).SetString(tc.want, 10)
		if got.Cmp(want) != 0 {
			t.Errorf("ToAtomic(%q, %d) = %s, want %s", tc.major, tc.decimals, got, want)
		}
	}
}

func TestToAtomicRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "abc", "1.2.3", "1,000"} {
		if _, err := ToAtomic(s, 9); err == nil {
			t.Errorf("ToAtomic(%q) should have failed", s)
		}
	}
}

func TestIsPositiveDecimal(t *testing.T) {
	positives := []string{"1", "0.01", "123.456", "1000000000"}
	for _, s := range positives {
		if !IsPositiveDecimal(s) {
			t.Errorf("IsPositiveDecimal(%q) = false, want true", s)
		}
	}
	negatives := []string{"0", "-1", "-0.5", "abc", "", "1.2.3", "1e10"}
	for _, s := range negatives {
		if IsPositiveDecimal(s) {
			t.Errorf("IsPositiveDecimal(%q) = true, want false", s)
		}
	}
}
