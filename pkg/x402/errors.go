package x402

import (
	"errors"
	"fmt"
)

// ErrorCode is a stable, machine-readable rejection reason. Codes never
// change meaning once shipped; new codes are additive.
type ErrorCode string

const (
	// Decode/shape errors: malformed input, rejected before any chain I/O.
	ErrInvalidPayload         ErrorCode = "INVALID_PAYLOAD"
	ErrInvalidScheme          ErrorCode = "INVALID_SCHEME"
	ErrInvalidNetwork         ErrorCode = "INVALID_NETWORK"
	ErrInvalidPayTo           ErrorCode = "INVALID_PAY_TO"
	ErrMissingAsset           ErrorCode = "MISSING_ASSET"
	ErrInvalidAssetScheme     ErrorCode = "INVALID_ASSET_SCHEME"
	ErrInvalidAmount          ErrorCode = "INVALID_AMOUNT"
	ErrUnsupportedX402Version ErrorCode = "UNSUPPORTED_X402_VERSION"

	// Verification (soft) errors: the payload parsed but doesn't satisfy
	// the requirement it's being checked against.
	ErrSchemeMismatch          ErrorCode = "SCHEME_MISMATCH"
	ErrNetworkMismatch         ErrorCode = "NETWORK_MISMATCH"
	ErrInvalidSignature        ErrorCode = "INVALID_SIGNATURE"
	ErrInvalidAddress          ErrorCode = "INVALID_ADDRESS"
	ErrMintMismatch            ErrorCode = "MINT_MISMATCH"
	ErrInvalidFromTokenAccount ErrorCode = "INVALID_FROM_TOKEN_ACCOUNT"
	ErrInvalidToTokenAccount   ErrorCode = "INVALID_TO_TOKEN_ACCOUNT"
	ErrInsufficientAmount      ErrorCode = "INSUFFICIENT_AMOUNT"
	ErrPayloadExpired          ErrorCode = "PAYLOAD_EXPIRED"

	// Settlement (hard) errors: verification passed but submission/
	// confirmation on chain failed.
	ErrConfirmationTimeout ErrorCode = "CONFIRMATION_TIMEOUT"
	ErrTransactionRejected ErrorCode = "TRANSACTION_REJECTED"
	ErrChainRPCError       ErrorCode = "CHAIN_RPC_ERROR"

	// Service errors: the facilitator has no engine/adapter for the
	// requested scheme or network.
	ErrUnsupportedNetwork ErrorCode = "UNSUPPORTED_NETWORK"
	ErrUnsupportedScheme  ErrorCode = "UNSUPPORTED_SCHEME"

	// ErrInternal covers failures that are the facilitator's own fault
	// rather than a verdict about the payment (panics recovered by
	// middleware, marshaling failures). Not part of spec §7's taxonomy;
	// it exists only so HTTPStatus has something to map to 500.
	ErrInternal ErrorCode = "INTERNAL"
)

// HTTPStatus reports the status a response carrying this code should use.
// Per spec §6.1/§7, verify/settle verdicts ride inside a 200 response body
// regardless of code — only a genuine internal failure gets a non-200.
func (e ErrorCode) HTTPStatus() int {
	if e == ErrInternal {
		return 500
	}
	return 200
}

// Message returns the fixed human-readable description of the code.
func (e ErrorCode) Message() string {
	switch e {
	case ErrInvalidPayload:
		return "invalid payment payload"
	case ErrInvalidScheme:
		return "invalid payment scheme"
	case ErrInvalidNetwork:
		return "invalid network"
	case ErrInvalidPayTo:
		return "invalid payTo address"
	case ErrMissingAsset:
		return "missing asset"
	case ErrInvalidAssetScheme:
		return "asset does not match scheme"
	case ErrInvalidAmount:
		return "invalid amount"
	case ErrUnsupportedX402Version:
		return "unsupported x402 version"
	case ErrSchemeMismatch:
		return "payment scheme does not match requirement"
	case ErrNetworkMismatch:
		return "payment network does not match requirement"
	case ErrInvalidSignature:
		return "invalid transaction signature"
	case ErrInvalidAddress:
		return "invalid wallet address"
	case ErrMintMismatch:
		return "token mint does not match requirement"
	case ErrInvalidFromTokenAccount:
		return "invalid from token account"
	case ErrInvalidToTokenAccount:
		return "invalid to token account"
	case ErrInsufficientAmount:
		return "insufficient payment amount"
	case ErrPayloadExpired:
		return "payment payload expired"
	case ErrConfirmationTimeout:
		return "transaction confirmation timed out"
	case ErrTransactionRejected:
		return "transaction was rejected"
	case ErrChainRPCError:
		return "chain RPC error"
	case ErrUnsupportedNetwork:
		return "unsupported network"
	case ErrUnsupportedScheme:
		return "unsupported scheme"
	case ErrInternal:
		return "internal error"
	default:
		return string(e)
	}
}

// VerificationError pairs an ErrorCode with the underlying cause. It's the
// error type codec, validator, and scheme-engine functions return, so
// callers can always recover a stable code via CodeOf.
type VerificationError struct {
	Code ErrorCode
	Err  error
}

func NewError(code ErrorCode, err error) *VerificationError {
	return &VerificationError{Code: code, Err: err}
}

func (e *VerificationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Code.Message())
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *VerificationError) Unwrap() error { return e.Err }

// Reason returns the message a caller-facing response should show: the
// wrapped error's text if present, otherwise the code's fixed message.
func (e *VerificationError) Reason() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Code.Message()
}

// CodeOf returns err's ErrorCode, or ErrInternal if err isn't tagged.
func CodeOf(err error) ErrorCode {
	var ve *VerificationError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ErrInternal
}
