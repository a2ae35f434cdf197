package scheme

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/mr-tron/base58"

	"github.com/x402-solana/facilitator/internal/chain"
	"github.com/x402-solana/facilitator/pkg/x402"
)

// SPLEngine implements the solana-spl scheme (spec §4.C.2): an SPL token
// transfer, verified against the mint's on-chain decimals and the payload's
// claimed associated token accounts. Grounded directly on
// pkg/x402/solana/transfer_validation.go's TransferChecked decode and
// builder.go's ATA-creation/compute-budget ordering.
type SPLEngine struct {
	network x402.Network
	adapter chain.Adapter
}

func NewSPLEngine(network x402.Network, adapter chain.Adapter) *SPLEngine {
	return &SPLEngine{network: network, adapter: adapter}
}

func (e *SPLEngine) Scheme() x402.Scheme   { return x402.SchemeSolanaSPL }
func (e *SPLEngine) Network() x402.Network { return e.network }

// Verify extends the transfer checks with mint/token-account matching.
// decimals is resolved by the Facilitator Service (stablecoin cache first,
// then adapter.GetMintInfo) before this is called — the engine itself never
// looks decimals up (spec §4.C: "the SPL engine accepts a tokenDecimals
// parameter resolved by the Facilitator").
func (e *SPLEngine) Verify(ctx context.Context, payload *x402.PaymentPayload, req *x402.PaymentRequirement, decimals uint8) (*VerifyResult, error) {
	if payload.Scheme != req.Scheme {
		return rejectVerify(x402.ErrSchemeMismatch)
	}
	if payload.Network != req.Network {
		return rejectVerify(x402.ErrNetworkMismatch)
	}

	sp, ok := payload.SPL()
	if !ok {
		return rejectVerify(x402.ErrInvalidPayload)
	}

	if sigLen := len(sp.Signature); sigLen < 87 || sigLen > 88 {
		return rejectVerify(x402.ErrInvalidSignature)
	}
	if _, err := base58.Decode(sp.Signature); err != nil {
		return rejectVerify(x402.ErrInvalidSignature)
	}

	from, err := solana.PublicKeyFromBase58(sp.From)
	if err != nil {
		return rejectVerify(x402.ErrInvalidAddress)
	}

	mint, err := solana.PublicKeyFromBase58(sp.Mint)
	if err != nil || sp.Mint != req.Asset {
		return &VerifyResult{IsValid: false, InvalidReason: x402.ErrMintMismatch.Message(), ErrorCode: x402.ErrMintMismatch, Payer: from.String()}, nil
	}

	payTo, err := solana.PublicKeyFromBase58(req.PayTo)
	if err != nil {
		return rejectVerify(x402.ErrInvalidPayTo)
	}

	wantFromATA, _, err := solana.FindAssociatedTokenAddress(from, mint)
	if err != nil || sp.FromTokenAccount != wantFromATA.String() {
		return &VerifyResult{IsValid: false, InvalidReason: x402.ErrInvalidFromTokenAccount.Message(), ErrorCode: x402.ErrInvalidFromTokenAccount, Payer: from.String()}, nil
	}
	wantToATA, _, err := solana.FindAssociatedTokenAddress(payTo, mint)
	if err != nil || sp.ToTokenAccount != wantToATA.String() {
		return &VerifyResult{IsValid: false, InvalidReason: x402.ErrInvalidToTokenAccount.Message(), ErrorCode: x402.ErrInvalidToTokenAccount, Payer: from.String()}, nil
	}

	required, err := x402.ToAtomic(req.MaxAmountRequired, decimals)
	if err != nil {
		return rejectVerify(x402.ErrInvalidAmount)
	}
	amount, err := parseAtomicAmount(sp.Amount)
	if err != nil {
		return rejectVerify(x402.ErrInvalidAmount)
	}
	if amount.Cmp(required) < 0 {
		return &VerifyResult{IsValid: false, InvalidReason: x402.ErrInsufficientAmount.Message(), ErrorCode: x402.ErrInsufficientAmount, Payer: from.String()}, nil
	}

	if isExpired(sp.Timestamp) {
		return &VerifyResult{IsValid: false, InvalidReason: x402.ErrPayloadExpired.Message(), ErrorCode: x402.ErrPayloadExpired, Payer: from.String()}, nil
	}

	return &VerifyResult{IsValid: true, Payer: from.String()}, nil
}

// Settle mirrors TransferEngine.Settle's idempotency-probe-first shape, with
// two SPL-specific additions: the destination ATA may not exist yet (created
// on demand, paid for by the payer, never by the facilitator), and the
// transfer instruction is TransferChecked so a stale decimals value can never
// silently move the wrong amount.
func (e *SPLEngine) Settle(ctx context.Context, payload *x402.PaymentPayload, req *x402.PaymentRequirement, decimals uint8) (*SettleResult, error) {
	verify, err := e.Verify(ctx, payload, req, decimals)
	if err != nil {
		return nil, err
	}
	if !verify.IsValid {
		return rejectSettle(verify.ErrorCode, verify.Payer)
	}

	sp, _ := payload.SPL()
	sig, err := solana.SignatureFromBase58(sp.Signature)
	if err != nil {
		return rejectSettle(x402.ErrInvalidSignature, verify.Payer)
	}

	if _, ok, err := e.adapter.GetTransaction(ctx, sig, rpc.CommitmentConfirmed); err != nil {
		return nil, fmt.Errorf("probe existing transaction: %w", err)
	} else if ok {
		return &SettleResult{Success: true, Transaction: sp.Signature, Network: e.network, Payer: verify.Payer}, nil
	}

	sentSig, err := e.reconstructAndSubmit(ctx, sp, req, decimals)
	if err != nil {
		return &SettleResult{Success: false, ErrorReason: err.Error(), ErrorCode: x402.ErrTransactionRejected, Network: e.network, Payer: verify.Payer}, nil
	}

	if err := e.adapter.ConfirmTransaction(ctx, sentSig, rpc.CommitmentConfirmed); err != nil {
		return &SettleResult{Success: false, ErrorReason: err.Error(), ErrorCode: x402.ErrConfirmationTimeout, Transaction: sentSig.String(), Network: e.network, Payer: verify.Payer}, nil
	}

	return &SettleResult{Success: true, Transaction: sentSig.String(), Network: e.network, Payer: verify.Payer}, nil
}

func (e *SPLEngine) reconstructAndSubmit(ctx context.Context, sp x402.SPLPayload, req *x402.PaymentRequirement, decimals uint8) (solana.Signature, error) {
	from, err := solana.PublicKeyFromBase58(sp.From)
	if err != nil {
		return solana.Signature{}, err
	}
	mint, err := solana.PublicKeyFromBase58(sp.Mint)
	if err != nil {
		return solana.Signature{}, err
	}
	payTo, err := solana.PublicKeyFromBase58(req.PayTo)
	if err != nil {
		return solana.Signature{}, err
	}
	toATA, _, err := solana.FindAssociatedTokenAddress(payTo, mint)
	if err != nil {
		return solana.Signature{}, err
	}
	fromATA, _, err := solana.FindAssociatedTokenAddress(from, mint)
	if err != nil {
		return solana.Signature{}, err
	}
	amount, err := parseAtomicAmount(sp.Amount)
	if err != nil {
		return solana.Signature{}, err
	}

	instructions := make([]solana.Instruction, 0, 2)
	toInfo, err := e.adapter.GetParsedAccount(ctx, toATA)
	if err != nil && !chain.IsAccountNotFound(err) {
		return solana.Signature{}, fmt.Errorf("check recipient token account: %w", err)
	}
	if err != nil || toInfo == nil || toInfo.Value == nil {
		instructions = append(instructions, associatedtokenaccount.NewCreateInstruction(from, payTo, mint).Build())
	}
	instructions = append(instructions,
		token.NewTransferCheckedInstruction(
			amount.Uint64(),
			decimals,
			fromATA,
			mint,
			toATA,
			from,
			[]solana.PublicKey{},
		).Build(),
	)

	blockhash, err := e.adapter.LatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, err
	}

	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(from))
	if err != nil {
		return solana.Signature{}, err
	}

	return e.adapter.SendRawTransaction(ctx, tx)
}
