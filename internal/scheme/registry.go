package scheme

import "github.com/x402-solana/facilitator/pkg/x402"

// Registry dispatches to the Engine registered for a (scheme, network) pair.
// Populated once at startup (cmd/facilitator/main.go); read-only afterward,
// so no locking is needed.
type Registry struct {
	engines map[x402.Scheme]map[x402.Network]Engine
}

func NewRegistry() *Registry {
	return &Registry{engines: make(map[x402.Scheme]map[x402.Network]Engine)}
}

// Register adds e under its own Scheme()/Network(), overwriting any prior
// registration for the same pair.
func (r *Registry) Register(e Engine) {
	byNetwork, ok := r.engines[e.Scheme()]
	if !ok {
		byNetwork = make(map[x402.Network]Engine)
		r.engines[e.Scheme()] = byNetwork
	}
	byNetwork[e.Network()] = e
}

// Lookup returns the engine registered for scheme/network, ok=false if none.
func (r *Registry) Lookup(scheme x402.Scheme, network x402.Network) (Engine, bool) {
	byNetwork, ok := r.engines[scheme]
	if !ok {
		return nil, false
	}
	e, ok := byNetwork[network]
	return e, ok
}

// Kind is one (scheme, network) pair the facilitator can service, the
// element type of the /supported response's "kinds" array (spec §6.1).
type Kind struct {
	Scheme  x402.Scheme  `json:"scheme"`
	Network x402.Network `json:"network"`
}

// Supported lists every registered (scheme, network) pair, for the
// /supported endpoint.
func (r *Registry) Supported() []Kind {
	var out []Kind
	for scheme, byNetwork := range r.engines {
		for network := range byNetwork {
			out = append(out, Kind{Scheme: scheme, Network: network})
		}
	}
	return out
}
