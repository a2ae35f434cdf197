package chain

import "strings"

// Error wraps a chain-level failure with the network it occurred on, so
// callers can log/attribute it without re-deriving context. Classification
// helpers below mirror the teacher's string-matching approach (Solana RPC
// doesn't expose typed errors over JSON-RPC).
type Error struct {
	Network string
	Op      string
	Err     error
}

func (e *Error) Error() string {
	return "chain(" + e.Network + "/" + e.Op + "): " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func NewError(network, op string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Network: network, Op: op, Err: err}
}

// IsAlreadyProcessed reports whether err indicates the RPC node already
// saw this exact transaction, the idempotency-probe "already settled" case.
func IsAlreadyProcessed(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Transaction already processed") || strings.Contains(msg, "already been processed")
}

// IsAccountNotFound reports whether err indicates a missing account (e.g.
// an associated token account that hasn't been created yet).
func IsAccountNotFound(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "account not found") ||
		strings.Contains(msg, "accountnotfound") ||
		strings.Contains(msg, "could not find account") ||
		strings.Contains(msg, "invalid account owner") ||
		strings.Contains(msg, "invalidaccountdata") ||
		strings.Contains(msg, "invalid account data")
}

// IsInsufficientFundsToken reports whether err is an SPL token balance
// failure (custom program error 0x1 from the token program).
func IsInsufficientFundsToken(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "custom program error: 0x1") ||
		(strings.Contains(msg, "insufficient funds") && !strings.Contains(msg, "insufficient lamports"))
}

// IsInsufficientFundsSOL reports whether err is a lamports/fee-payer
// balance failure.
func IsInsufficientFundsSOL(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "insufficient lamports") ||
		(strings.Contains(msg, "insufficient funds") && strings.Contains(msg, "fee payer"))
}

// IsTransactionNotFound reports whether err indicates a signature that
// hasn't landed (or hasn't been indexed) yet — keep polling.
func IsTransactionNotFound(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "not found") ||
		strings.Contains(msg, "not confirmed yet") ||
		strings.Contains(msg, "not processed yet") ||
		strings.Contains(msg, "not finalized yet")
}

// IsRateLimited reports whether err indicates the RPC node throttled the
// request (HTTP 429, or a "rate limit" or "too many requests" message).
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "too many requests")
}
