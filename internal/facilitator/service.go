package facilitator

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go/rpc"

	"github.com/x402-solana/facilitator/internal/chain"
	"github.com/x402-solana/facilitator/internal/logger"
	"github.com/x402-solana/facilitator/internal/metrics"
	"github.com/x402-solana/facilitator/internal/scheme"
	"github.com/x402-solana/facilitator/pkg/x402"
)

// Service is Component D, the Facilitator Service: it owns no chain state
// of its own, just the wiring spec §4.D's routing steps describe between
// the codec, the registry, and the decimals cache.
type Service struct {
	registry *scheme.Registry
	adapters map[x402.Network]chain.Adapter
	decimals *decimalsCache
	metrics  *metrics.Metrics
}

// NewService wires a Service from a populated registry and one adapter per
// configured network. adapters is keyed the same way cmd/facilitator/main.go
// builds it: one chain.Adapter per entry in cfg.Networks.
func NewService(registry *scheme.Registry, adapters map[x402.Network]chain.Adapter, m *metrics.Metrics) *Service {
	return &Service{
		registry: registry,
		adapters: adapters,
		decimals: newDecimalsCache(),
		metrics:  m,
	}
}

// Supported exposes the registry's (scheme, network) pairs for /supported.
func (s *Service) Supported() []scheme.Kind {
	return s.registry.Supported()
}

// Health pings every configured network's RPC endpoint and reports
// reachability per network, for GET /health.
func (s *Service) Health(ctx context.Context) map[string]string {
	networks := make(map[string]string, len(s.adapters))
	for network, adapter := range s.adapters {
		if err := chain.Ping(ctx, adapter); err != nil {
			networks[string(network)] = err.Error()
			continue
		}
		networks[string(network)] = "ok"
	}
	return networks
}

// route runs the shared prelude steps 1-4 of spec §4.D: decode the header,
// validate the requirement, check the payload and requirement agree on
// scheme/network, and look up the engine. Both Verify and Settle share
// this; they differ only in which Engine method they call afterward.
func (s *Service) route(req *VerifyRequest) (*x402.PaymentPayload, *x402.PaymentRequirement, scheme.Engine, chain.Adapter, error) {
	if req.X402Version != x402.SupportedX402Version {
		return nil, nil, nil, nil, x402.NewError(x402.ErrUnsupportedX402Version, nil)
	}

	payload, err := x402.Decode(req.PaymentHeader)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	r := req.PaymentRequirements
	if err := x402.Validate(&r); err != nil {
		return nil, nil, nil, nil, err
	}

	if payload.Scheme != r.Scheme {
		return nil, nil, nil, nil, x402.NewError(x402.ErrSchemeMismatch, nil)
	}
	if payload.Network != r.Network {
		return nil, nil, nil, nil, x402.NewError(x402.ErrNetworkMismatch, nil)
	}

	adapter, ok := s.adapters[r.Network]
	if !ok {
		return nil, nil, nil, nil, x402.NewError(x402.ErrUnsupportedNetwork, nil)
	}

	engine, ok := s.registry.Lookup(r.Scheme, r.Network)
	if !ok {
		return nil, nil, nil, nil, x402.NewError(x402.ErrUnsupportedScheme, nil)
	}

	return payload, &r, engine, adapter, nil
}

// resolveDecimals implements spec §4.D step 5: solana-transfer is always 9
// (lamports); solana-spl goes through the cache, falling back to 9 with a
// logged warning if the mint lookup itself fails (a requirement naming an
// unresolvable mint should still get a verdict, not a 500).
func (s *Service) resolveDecimals(ctx context.Context, adapter chain.Adapter, r *x402.PaymentRequirement) uint8 {
	if r.Scheme == x402.SchemeSolanaTransfer {
		return 9
	}
	d, err := s.decimals.resolve(ctx, adapter, r.Network, r.Asset)
	if err != nil {
		logger.FromContext(ctx).Warn().
			Str("network", string(r.Network)).
			Str("mint", r.Asset).
			Err(err).
			Msg("mint decimals lookup failed, falling back to 9")
		return 9
	}
	return d
}

// Verify implements POST /verify.
func (s *Service) Verify(ctx context.Context, req *VerifyRequest) VerifyResponse {
	payload, r, engine, adapter, err := s.route(req)
	if err != nil {
		reason := x402.CodeOf(err).Message()
		if ve, ok := err.(*x402.VerificationError); ok {
			reason = ve.Reason()
		}
		s.observeVerify(req, "rejected")
		return VerifyResponse{IsValid: false, InvalidReason: &reason}
	}

	decimals := s.resolveDecimals(ctx, adapter, r)

	result, err := engine.Verify(ctx, payload, r, decimals)
	if err != nil {
		s.observeVerify(req, "error")
		reason := err.Error()
		return VerifyResponse{IsValid: false, InvalidReason: &reason}
	}

	if result.IsValid {
		s.observeVerify(req, "valid")
		return VerifyResponse{IsValid: true}
	}
	s.observeVerify(req, "invalid")
	reason := result.InvalidReason
	return VerifyResponse{IsValid: false, InvalidReason: &reason}
}

// Settle implements POST /settle.
func (s *Service) Settle(ctx context.Context, req *VerifyRequest) SettleResponse {
	start := time.Now()
	payload, r, engine, adapter, err := s.route(req)
	if err != nil {
		reason := x402.CodeOf(err).Message()
		if ve, ok := err.(*x402.VerificationError); ok {
			reason = ve.Reason()
		}
		s.observeSettle(req, "rejected", start)
		return SettleResponse{Success: false, Error: &reason}
	}

	decimals := s.resolveDecimals(ctx, adapter, r)

	result, err := engine.Settle(ctx, payload, r, decimals)
	if err != nil {
		s.observeSettle(req, "error", start)
		reason := err.Error()
		return SettleResponse{Success: false, Error: &reason}
	}

	if !result.Success {
		s.observeSettle(req, "failed", start)
		reason := result.ErrorReason
		resp := SettleResponse{Success: false, Error: &reason}
		if result.Transaction != "" {
			txHash := result.Transaction
			resp.TxHash = &txHash
		}
		return resp
	}

	s.observeSettle(req, "success", start)
	txHash := result.Transaction
	networkID := string(result.Network)
	return SettleResponse{Success: true, TxHash: &txHash, NetworkID: &networkID}
}

// TransactionStatus implements GET /transaction/{signature}: a direct
// idempotency-style probe against the named network, independent of any
// scheme engine (spec §4.D's third endpoint).
func (s *Service) TransactionStatus(ctx context.Context, network x402.Network, signatureB58 string) (*TransactionResponse, error) {
	adapter, ok := s.adapters[network]
	if !ok {
		return nil, x402.NewError(x402.ErrUnsupportedNetwork, nil)
	}

	sig, err := decodeSignature(signatureB58)
	if err != nil {
		return nil, x402.NewError(x402.ErrInvalidSignature, err)
	}

	_, ok, err = adapter.GetTransaction(ctx, sig, rpc.CommitmentConfirmed)
	if err != nil {
		errMsg := err.Error()
		return &TransactionResponse{Confirmed: false, Error: &errMsg}, nil
	}
	return &TransactionResponse{Confirmed: ok}, nil
}

func (s *Service) observeVerify(req *VerifyRequest, result string) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveVerify(string(req.PaymentRequirements.Scheme), string(req.PaymentRequirements.Network), result)
}

func (s *Service) observeSettle(req *VerifyRequest, result string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveSettle(string(req.PaymentRequirements.Scheme), string(req.PaymentRequirements.Network), result, time.Since(start))
}
