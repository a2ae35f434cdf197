package facilitator

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/x402-solana/facilitator/internal/chain"
)

// mockAdapter is a minimal chain.Adapter test double, mirroring
// internal/scheme's mockAdapter (unexported there, so duplicated rather
// than shared across packages).
type mockAdapter struct {
	network string

	blockhash solana.Hash

	txFound bool

	sendSig    solana.Signature
	confirmErr error

	mintDecimals uint8
	mintErr      error
}

func (m *mockAdapter) Network() string { return m.network }

func (m *mockAdapter) LatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (solana.Hash, error) {
	return m.blockhash, nil
}

func (m *mockAdapter) GetTransaction(ctx context.Context, signature solana.Signature, commitment rpc.CommitmentType) (*rpc.GetTransactionResult, bool, error) {
	if m.txFound {
		return &rpc.GetTransactionResult{}, true, nil
	}
	return nil, false, nil
}

func (m *mockAdapter) SendRawTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	return m.sendSig, nil
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
	return nil, nil
}

func (m *mockAdapter) Close() error { return nil }

var _ chain.Adapter = (*mockAdapter)(nil)
