package scheme

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/mr-tron/base58"

	"github.com/x402-solana/facilitator/internal/chain"
	"github.com/x402-solana/facilitator/pkg/x402"
)

// TransferEngine implements the solana-transfer scheme (spec §4.C.1): a
// native SOL transfer verified and settled against a single Adapter/network.
// Grounded on pkg/x402/solana/transfer_validation.go's instruction-decoding
// approach, adapted from SPL decode to system.Transfer, and builder.go's
// instruction-assembly pattern.
type TransferEngine struct {
	network x402.Network
	adapter chain.Adapter
}

func NewTransferEngine(network x402.Network, adapter chain.Adapter) *TransferEngine {
	return &TransferEngine{network: network, adapter: adapter}
}

func (e *TransferEngine) Scheme() x402.Scheme   { return x402.SchemeSolanaTransfer }
func (e *TransferEngine) Network() x402.Network { return e.network }

// Verify checks the payload's shape and amount against req without touching
// the chain (spec §4.C.1 steps 1-5). It never tells the caller whether the
// transaction has actually landed — that's Settle's job, via the idempotency
// probe. decimals is always 9 (lamports) for this engine.
func (e *TransferEngine) Verify(ctx context.Context, payload *x402.PaymentPayload, req *x402.PaymentRequirement, decimals uint8) (*VerifyResult, error) {
	if payload.Scheme != req.Scheme {
		return rejectVerify(x402.ErrSchemeMismatch)
	}
	if payload.Network != req.Network || payload.Network != e.network {
		return rejectVerify(x402.ErrNetworkMismatch)
	}

	tp, ok := payload.Transfer()
	if !ok {
		return rejectVerify(x402.ErrInvalidPayload)
	}

	if sigLen := len(tp.Signature); sigLen < 87 || sigLen > 88 {
		return rejectVerify(x402.ErrInvalidSignature)
	}
	if _, err := base58.Decode(tp.Signature); err != nil {
		return rejectVerify(x402.ErrInvalidSignature)
	}

	from, err := solana.PublicKeyFromBase58(tp.From)
	if err != nil {
		return rejectVerify(x402.ErrInvalidAddress)
	}

	required, err := x402.ToAtomic(req.MaxAmountRequired, decimals)
	if err != nil {
		return rejectVerify(x402.ErrInvalidAmount)
	}
	amount, err := parseAtomicAmount(tp.Amount)
	if err != nil {
		return rejectVerify(x402.ErrInvalidAmount)
	}
	if amount.Cmp(required) < 0 {
		return &VerifyResult{IsValid: false, InvalidReason: x402.ErrInsufficientAmount.Message(), ErrorCode: x402.ErrInsufficientAmount, Payer: from.String()}, nil
	}

	if isExpired(tp.Timestamp) {
		return &VerifyResult{IsValid: false, InvalidReason: x402.ErrPayloadExpired.Message(), ErrorCode: x402.ErrPayloadExpired, Payer: from.String()}, nil
	}

	return &VerifyResult{IsValid: true, Payer: from.String()}, nil
}

// Settle probes for an already-landed transaction with this signature first
// (idempotency, spec §4.C), then — only on a genuine miss — reconstructs a
// single system.Transfer instruction from the payload and submits it.
//
// As spec §9's Open Question notes, a reconstructed transaction cannot be
// byte-identical to whatever the client actually signed off-band (fresh
// blockhash, payload carries no signature bytes to attach), so the validator
// will reject it unless this facilitator is also made the transaction's fee
// payer in a future fee-delegation mode. That mode isn't built here; this
// path exists so a signature that already landed (the common case: the
// client submitted directly and only asks the facilitator to verify/settle
// after the fact) is reported as settled without resubmission.
func (e *TransferEngine) Settle(ctx context.Context, payload *x402.PaymentPayload, req *x402.PaymentRequirement, decimals uint8) (*SettleResult, error) {
	verify, err := e.Verify(ctx, payload, req, decimals)
	if err != nil {
		return nil, err
	}
	if !verify.IsValid {
		return rejectSettle(verify.ErrorCode, verify.Payer)
	}

	tp, _ := payload.Transfer()
	sig, err := solana.SignatureFromBase58(tp.Signature)
	if err != nil {
		return rejectSettle(x402.ErrInvalidSignature, verify.Payer)
	}

	if _, ok, err := e.adapter.GetTransaction(ctx, sig, rpc.CommitmentConfirmed); err != nil {
		return nil, fmt.Errorf("probe existing transaction: %w", err)
	} else if ok {
		return &SettleResult{Success: true, Transaction: tp.Signature, Network: e.network, Payer: verify.Payer}, nil
	}

	sentSig, err := e.reconstructAndSubmit(ctx, tp, req)
	if err != nil {
		return &SettleResult{Success: false, ErrorReason: err.Error(), ErrorCode: x402.ErrTransactionRejected, Network: e.network, Payer: verify.Payer}, nil
	}

	if err := e.adapter.ConfirmTransaction(ctx, sentSig, rpc.CommitmentConfirmed); err != nil {
		return &SettleResult{Success: false, ErrorReason: err.Error(), ErrorCode: x402.ErrConfirmationTimeout, Transaction: sentSig.String(), Network: e.network, Payer: verify.Payer}, nil
	}

	return &SettleResult{Success: true, Transaction: sentSig.String(), Network: e.network, Payer: verify.Payer}, nil
}

func (e *TransferEngine) reconstructAndSubmit(ctx context.Context, tp x402.TransferPayload, req *x402.PaymentRequirement) (solana.Signature, error) {
	from, err := solana.PublicKeyFromBase58(tp.From)
	if err != nil {
		return solana.Signature{}, err
	}
	to, err := solana.PublicKeyFromBase58(req.PayTo)
	if err != nil {
		return solana.Signature{}, err
	}
	amount, err := parseAtomicAmount(tp.Amount)
	if err != nil {
		return solana.Signature{}, err
	}

	blockhash, err := e.adapter.LatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, err
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{system.NewTransferInstruction(amount.Uint64(), from, to).Build()},
		blockhash,
		solana.TransactionPayer(from),
	)
	if err != nil {
		return solana.Signature{}, err
	}

	return e.adapter.SendRawTransaction(ctx, tx)
}
