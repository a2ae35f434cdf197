package chain

import (
	"errors"
	"testing"
)

func TestIsAlreadyProcessed(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"already processed", errors.New("Transaction already processed"), true},
		{"already been processed", errors.New("signature has already been processed"), true},
		{"unrelated", errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsAlreadyProcessed(tc.err); got != tc.want {
				t.Errorf("IsAlreadyProcessed(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestIsAccountNotFound(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"account not found", errors.New("AccountNotFound: pubkey could not be found"), true},
		{"could not find account", errors.New("could not find account"), true},
		{"unrelated", errors.New("blockhash not found"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsAccountNotFound(tc.err); got != tc.want {
				t.Errorf("IsAccountNotFound(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestIsInsufficientFundsToken(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"custom program error 0x1", errors.New("custom program error: 0x1"), true},
		{"insufficient funds (token)", errors.New("insufficient funds for transfer"), true},
		{"insufficient lamports excluded", errors.New("insufficient lamports for fee"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsInsufficientFundsToken(tc.err); got != tc.want {
				t.Errorf("IsInsufficientFundsToken(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestIsInsufficientFundsSOL(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"insufficient lamports", errors.New("Insufficient Lamports for fee"), true},
		{"fee payer insufficient funds", errors.New("insufficient funds for fee payer"), true},
		{"token insufficient excluded", errors.New("insufficient funds for transfer"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsInsufficientFundsSOL(tc.err); got != tc.want {
				t.Errorf("IsInsufficientFundsSOL(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestIsTransactionNotFound(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"not found", errors.New("transaction not found"), true},
		{"not confirmed yet", errors.New("transaction not confirmed yet"), true},
		{"failed on chain", errors.New("transaction error: custom program error"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsTransactionNotFound(tc.err); got != tc.want {
				t.Errorf("IsTransactionNotFound(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
