package chain

import (
	"context"
	"fmt"
	"net/url"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"

	x402pkg "github.com/x402-solana/facilitator/pkg/x402"

	"github.com/x402-solana/facilitator/internal/circuitbreaker"
	"github.com/x402-solana/facilitator/internal/metrics"
	"github.com/x402-solana/facilitator/internal/rpcutil"
)

// solanaAdapter is the production Adapter: a single RPC+WS pair for one
// network, wrapped in a circuit breaker and instrumented with metrics.
// Grounded on pkg/x402/solana/verifier.go's struct shape and
// confirmation.go's dual websocket-first/RPC-polling confirmation
// strategy.
type solanaAdapter struct {
	network string
	rpc     *rpc.Client
	ws      *ws.Client
	breaker *circuitbreaker.Manager
	metrics *metrics.Metrics
}

// NewSolanaAdapter dials rpcURL (and wsURL, deriving it from rpcURL if
// empty) and returns an Adapter for network.
func NewSolanaAdapter(network, rpcURL, wsURL string, breaker *circuitbreaker.Manager, m *metrics.Metrics) (Adapter, error) {
	if rpcURL == "" {
		return nil, fmt.Errorf("chain: rpc url required for network %q", network)
	}
	if wsURL == "" {
		derived, err := deriveWebsocketURL(rpcURL)
		if err != nil {
			return nil, fmt.Errorf("chain: derive websocket url for %q: %w", network, err)
		}
		wsURL = derived
	}

	wsClient, err := ws.Connect(context.Background(), wsURL)
	if err != nil {
		return nil, fmt.Errorf("chain: connect websocket for %q: %w", network, err)
	}

	return &solanaAdapter{
		network: network,
		rpc:     rpc.New(rpcURL),
		ws:      wsClient,
		breaker: breaker,
		metrics: m,
	}, nil
}

func (a *solanaAdapter) Network() string { return a.network }

// Close shuts down the adapter's websocket client.
func (a *solanaAdapter) Close() error {
	a.ws.Close()
	return nil
}

// call wraps an RPC invocation with transient-error retry (rpcutil),
// the network's circuit breaker, and RPC metrics, mirroring verifier.go's
// ObserveRPCCall-around-every-call pattern. Retry sits inside the breaker
// so a string of transient blips backs off and recovers without ever
// tripping it; a sustained outage still trips the breaker once retries
// are exhausted.
func (a *solanaAdapter) call(ctx context.Context, method string, fn func() (any, error)) (any, error) {
	start := time.Now()
	v, err := rpcutil.WithRetry(ctx, func() (any, error) {
		return a.breaker.Execute(a.network, fn)
	})
	if a.metrics != nil {
		a.metrics.ObserveRPCCall(method, a.network, time.Since(start), err)
	}
	return v, err
}

func (a *solanaAdapter) LatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (solana.Hash, error) {
	v, err := a.call(ctx, "getLatestBlockhash", func() (any, error) {
		return a.rpc.GetLatestBlockhash(ctx, commitment)
	})
	if err != nil {
		return solana.Hash{}, NewError(a.network, "getLatestBlockhash", err)
	}
	return v.(*rpc.GetLatestBlockhashResult).Value.Blockhash, nil
}

func (a *solanaAdapter) GetTransaction(ctx context.Context, signature solana.Signature, commitment rpc.CommitmentType) (*rpc.GetTransactionResult, bool, error) {
	v, err := a.call(ctx, "getTransaction", func() (any, error) {
		return a.rpc.GetTransaction(ctx, signature, &rpc.GetTransactionOpts{
			Encoding:   solana.EncodingBase64,
			Commitment: commitment,
		})
	})
	if err != nil {
		if IsTransactionNotFound(err) {
			return nil, false, nil
		}
		return nil, false, NewError(a.network, "getTransaction", err)
	}
	result, _ := v.(*rpc.GetTransactionResult)
	if result == nil {
		return nil, false, nil
	}
	return result, true, nil
}

func (a *solanaAdapter) SendRawTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	v, err := a.call(ctx, "sendTransaction", func() (any, error) {
		return a.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
			SkipPreflight:       false,
			PreflightCommitment: rpc.CommitmentConfirmed,
		})
	})
	if err != nil {
		if IsAlreadyProcessed(err) {
			// The transaction landed already; the caller treats this the
			// same as a successful send and moves on to confirmation.
			return solana.Signature{}, nil
		}
		return solana.Signature{}, NewError(a.network, "sendTransaction", err)
	}
	return v.(solana.Signature), nil
}

func (a *solanaAdapter) ConfirmTransaction(ctx context.Context, signature solana.Signature, commitment rpc.CommitmentType) error {
	if err := a.confirmViaWebSocket(ctx, signature, commitment); err == nil {
		return nil
	}
	return a.confirmViaPolling(ctx, signature, commitment)
}

func (a *solanaAdapter) confirmViaWebSocket(ctx context.Context, signature solana.Signature, commitment rpc.CommitmentType) error {
	sub, err := a.ws.SignatureSubscribe(signature, commitment)
	if err != nil {
		return NewError(a.network, "signatureSubscribe", err)
	}
	defer sub.Unsubscribe()

	res, err := sub.Recv(ctx)
	if err != nil {
		return NewError(a.network, "signatureSubscribe.recv", err)
	}
	if res == nil {
		return NewError(a.network, "signatureSubscribe.recv", fmt.Errorf("empty confirmation result"))
	}
	if res.Value.Err != nil {
		return NewError(a.network, "signatureSubscribe.recv", fmt.Errorf("transaction error: %v", res.Value.Err))
	}
	return nil
}

// confirmViaPolling falls back to getSignatureStatuses when the websocket
// path fails, bounded by the blockhash validity window: a transaction not
// seen by then has been dropped and never will confirm.
func (a *solanaAdapter) confirmViaPolling(ctx context.Context, signature solana.Signature, commitment rpc.CommitmentType) error {
	ticker := time.NewTicker(x402pkg.RPCPollInterval)
	defer ticker.Stop()

	deadline := time.Now().Add(x402pkg.BlockhashValidityWindow)

	for {
		select {
		case <-ctx.Done():
			return a.checkStatus(ctx, signature, commitment)
		case <-ticker.C:
			err := a.checkStatus(ctx, signature, commitment)
			if err == nil {
				return nil
			}
			if time.Now().After(deadline) {
				return NewError(a.network, "confirmTransaction", fmt.Errorf("transaction not found within blockhash validity window (likely dropped)"))
			}
			if IsTransactionNotFound(err) {
				continue
			}
			return err
		}
	}
}

func (a *solanaAdapter) checkStatus(ctx context.Context, signature solana.Signature, commitment rpc.CommitmentType) error {
	result, err := a.GetSignatureStatus(ctx, signature)
	if err != nil {
		return err
	}
	if result == nil || len(result.Value) == 0 || result.Value[0] == nil {
		return fmt.Errorf("transaction not found")
	}
	status := result.Value[0]
	if status.ConfirmationStatus == "" {
		return fmt.Errorf("transaction not confirmed yet")
	}
	switch commitment {
	case rpc.CommitmentFinalized:
		if status.ConfirmationStatus != rpc.ConfirmationStatusFinalized {
			return fmt.Errorf("transaction not finalized yet")
		}
	case rpc.CommitmentConfirmed:
		if status.ConfirmationStatus != rpc.ConfirmationStatusConfirmed && status.ConfirmationStatus != rpc.ConfirmationStatusFinalized {
			return fmt.Errorf("transaction not confirmed yet")
		}
	}
	if status.Err != nil {
		return fmt.Errorf("transaction error: %v", status.Err)
	}
	return nil
}

func (a *solanaAdapter) GetSignatureStatus(ctx context.Context, signature solana.Signature) (*rpc.SignatureStatusesResult, error) {
	v, err := a.call(ctx, "getSignatureStatuses", func() (any, error) {
		return a.rpc.GetSignatureStatuses(ctx, true, signature)
	})
	if err != nil {
		return nil, NewError(a.network, "getSignatureStatuses", err)
	}
	return v.(*rpc.SignatureStatusesResult), nil
}

func (a *solanaAdapter) GetMintInfo(ctx context.Context, mint solana.PublicKey) (uint8, error) {
	v, err := a.call(ctx, "getAccountInfo", func() (any, error) {
		return a.rpc.GetAccountInfoWithOpts(ctx, mint, &rpc.GetAccountInfoOpts{
			Encoding: solana.EncodingBase64,
		})
	})
	if err != nil {
		return 0, NewError(a.network, "getAccountInfo", err)
	}
	info := v.(*rpc.GetAccountInfoResult)
	if info == nil || info.Value == nil {
		return 0, NewError(a.network, "getAccountInfo", fmt.Errorf("mint account %s not found", mint))
	}
	var mintData token.Mint
	if err := bin.NewBinDecoder(info.Value.Data.GetBinary()).Decode(&mintData); err != nil {
		return 0, NewError(a.network, "decodeMint", fmt.Errorf("decode mint %s: %w", mint, err))
	}
	return mintData.Decimals, nil
}

func (a *solanaAdapter) GetParsedAccount(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	v, err := a.call(ctx, "getAccountInfo", func() (any, error) {
		return a.rpc.GetAccountInfoWithOpts(ctx, account, &rpc.GetAccountInfoOpts{
			Encoding: solana.EncodingBase64,
		})
	})
	if err != nil {
		return nil, NewError(a.network, "getAccountInfo", err)
	}
	return v.(*rpc.GetAccountInfoResult), nil
}

// deriveWebsocketURL converts an HTTP(S) RPC URL to WS(S) form. Grounded
// on pkg/x402/solana/helpers.go's deriveWebsocketURL.
func deriveWebsocketURL(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("rpc url empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	case "ws", "wss":
		return raw, nil
	case "":
		return "", fmt.Errorf("rpc url missing scheme")
	default:
		return "", fmt.Errorf("unsupported rpc url scheme %q", u.Scheme)
	}
	return u.String(), nil
}
