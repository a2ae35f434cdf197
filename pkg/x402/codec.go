package x402

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// envelope mirrors PaymentPayload but keeps Payload as a raw message so it
// can be unmarshaled into the right concrete type once Scheme is known.
type envelope struct {
	X402Version int             `json:"x402Version"`
	Scheme      Scheme          `json:"scheme"`
	Network     Network         `json:"network"`
	Payload     json.RawMessage `json:"payload"`
}

// SupportedX402Version is the only wire version this facilitator accepts.
const SupportedX402Version = 1

// Decode parses the X-Payment header value: base64(utf8(JSON(PaymentPayload))).
// It never performs chain I/O. Decode(Encode(p)) reproduces p exactly
// (spec §8 invariant 1).
func Decode(header string) (*PaymentPayload, error) {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return nil, NewError(ErrInvalidPayload, fmt.Errorf("empty X-Payment header"))
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(raw)
		if err != nil {
			return nil, NewError(ErrInvalidPayload, fmt.Errorf("decode base64: %w", err))
		}
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, NewError(ErrInvalidPayload, fmt.Errorf("parse payload json: %w", err))
	}
	if env.X402Version != SupportedX402Version {
		return nil, NewError(ErrUnsupportedX402Version, fmt.Errorf("unsupported x402Version %d", env.X402Version))
	}

	payload := &PaymentPayload{
		X402Version: env.X402Version,
		Scheme:      env.Scheme,
		Network:     env.Network,
	}

	switch env.Scheme {
	case SchemeSolanaTransfer:
		var tp TransferPayload
		if err := json.Unmarshal(env.Payload, &tp); err != nil {
			return nil, NewError(ErrInvalidPayload, fmt.Errorf("parse transfer payload: %w", err))
		}
		payload.Payload = tp
	case SchemeSolanaSPL:
		var sp SPLPayload
		if err := json.Unmarshal(env.Payload, &sp); err != nil {
			return nil, NewError(ErrInvalidPayload, fmt.Errorf("parse spl payload: %w", err))
		}
		payload.Payload = sp
	default:
		return nil, NewError(ErrInvalidScheme, fmt.Errorf("unknown scheme %q", env.Scheme))
	}

	return payload, nil
}

// Encode serializes a PaymentPayload into the X-Payment header form.
func Encode(p *PaymentPayload) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", NewError(ErrInvalidPayload, fmt.Errorf("marshal payload: %w", err))
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
