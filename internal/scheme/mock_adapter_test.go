package scheme

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/x402-solana/facilitator/internal/chain"
)

// mockAdapter is a minimal chain.Adapter test double. Only the fields a
// given test needs are set; every method returns its configured fields,
// so an unset field yields a zero value and a nil error.
type mockAdapter struct {
	network string

	blockhash    solana.Hash
	blockhashErr error

	txFound bool
	txErr   error

	sendSig solana.Signature
	sendErr error

	confirmErr error

	mintDecimals uint8
	mintErr      error

	accountInfo *rpc.GetAccountInfoResult
	accountErr  error
}

func (m *mockAdapter) Network() string { return m.network }

func (m *mockAdapter) LatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (solana.Hash, error) {
	return m.blockhash, m.blockhashErr
}

func (m *mockAdapter) GetTransaction(ctx context.Context, signature solana.Signature, commitment rpc.CommitmentType) (*rpc.GetTransactionResult, bool, error) {
	if m.txErr != nil {
		return nil, false, m.txErr
	}
	if m.txFound {
		return &rpc.GetTransactionResult{}, true, nil
	}
	return nil, false, nil
}

func (m *mockAdapter) SendRawTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	return m.sendSig, m.sendErr
}

func (m *mockAdapter) ConfirmTransaction(ctx context.Context, signature solana.Signature, commitment rpc.CommitmentType) error {
	return m.confirmErr
}

func (m *mockAdapter) GetSignatureStatus(ctx context.Context, signature solana.Signature) (*rpc.SignatureStatusesResult, error) {
	return nil, nil
}

func (m *mockAdapter) GetMintInfo(ctx context.Context, mint solana.PublicKey) (uint8, error) {
	return m.mintDecimals, m.mintErr
}

func (m *mockAdapter) GetParsedAccount(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	return m.accountInfo, m.accountErr
}

func (m *mockAdapter) Close() error { return nil }

var _ chain.Adapter = (*mockAdapter)(nil)
