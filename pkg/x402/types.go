// Package x402 implements the codec and requirement validator for the
// Solana x402 facilitator: encoding/decoding the X-Payment header and
// checking PaymentRequirement shape, independent of any chain I/O.
package x402

import "encoding/json"

// Scheme identifies a payment mechanism.
type Scheme string

const (
	SchemeSolanaTransfer Scheme = "solana-transfer"
	SchemeSolanaSPL      Scheme = "solana-spl"
)

// Network identifies a target Solana cluster.
type Network string

const (
	NetworkMainnet Network = "solana-mainnet"
	NetworkDevnet  Network = "solana-devnet"
	NetworkTestnet Network = "solana-testnet"
)

// Extra carries scheme-agnostic hints a resource server may attach to a
// requirement. FeePayer is reserved for a future fee-delegation mode and is
// never acted upon by the core (see DESIGN.md Open Question decisions).
type Extra struct {
	FeePayer    string `json:"feePayer,omitempty"`
	PriorityFee uint64 `json:"priorityFee,omitempty"`
	Memo        string `json:"memo,omitempty"`
}

// PaymentRequirement is the resource server's published terms for one
// acceptable way to pay.
type PaymentRequirement struct {
	Scheme            Scheme          `json:"scheme"`
	Network           Network         `json:"network"`
	MaxAmountRequired string          `json:"maxAmountRequired"`
	Resource          string          `json:"resource"`
	Description       string          `json:"description"`
	MimeType          string          `json:"mimeType"`
	OutputSchema      json.RawMessage `json:"outputSchema,omitempty"`
	PayTo             string          `json:"payTo"`
	MaxTimeoutSeconds int             `json:"maxTimeoutSeconds"`
	Asset             string          `json:"asset"`
	Extra             Extra           `json:"extra"`
}

// TransferPayload is the solana-transfer scheme's wire payload: a native
// SOL transfer. Amount is a decimal string of lamports.
type TransferPayload struct {
	From      string `json:"from"`
	Signature string `json:"signature"`
	Amount    string `json:"amount"`
	Timestamp int64  `json:"timestamp"`
	Nonce     string `json:"nonce,omitempty"`
}

// SPLPayload extends TransferPayload with the fields an SPL token transfer
// needs. Amount is a decimal string in the token's atomic units.
type SPLPayload struct {
	TransferPayload
	Mint             string `json:"mint"`
	FromTokenAccount string `json:"fromTokenAccount"`
	ToTokenAccount   string `json:"toTokenAccount"`
}

// PaymentPayload is the decoded form of the X-Payment header. Payload holds
// a TransferPayload or SPLPayload value depending on Scheme.
type PaymentPayload struct {
	X402Version int     `json:"x402Version"`
	Scheme      Scheme  `json:"scheme"`
	Network     Network `json:"network"`
	Payload     any     `json:"payload"`
}

// Transfer returns the payload as a TransferPayload. For an SPLPayload it
// returns the embedded TransferPayload; ok=false only if Payload holds
// neither type.
func (p *PaymentPayload) Transfer() (TransferPayload, bool) {
	switch v := p.Payload.(type) {
	case TransferPayload:
		return v, true
	case SPLPayload:
		return v.TransferPayload, true
	default:
		return TransferPayload{}, false
	}
}

// SPL returns the payload as an SPLPayload, ok=false unless scheme is
// solana-spl.
func (p *PaymentPayload) SPL() (SPLPayload, bool) {
	v, ok := p.Payload.(SPLPayload)
	return v, ok
}
