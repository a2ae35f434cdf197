package facilitator

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/x402-solana/facilitator/pkg/responders"
	"github.com/x402-solana/facilitator/pkg/x402"
)

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	responders.JSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Networks:  h.service.Health(r.Context()),
	})
}

func (h *handlers) supported(w http.ResponseWriter, r *http.Request) {
	responders.JSON(w, http.StatusOK, SupportedResponse{Kinds: h.service.Supported()})
}

func (h *handlers) verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		responders.JSON(w, http.StatusBadRequest, errorBody{Error: "malformed request body"})
		return
	}
	if req.PaymentHeader == "" {
		responders.JSON(w, http.StatusBadRequest, errorBody{Error: "paymentHeader is required"})
		return
	}

	resp := h.service.Verify(r.Context(), &req)
	responders.JSON(w, http.StatusOK, resp)
}

func (h *handlers) settle(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		responders.JSON(w, http.StatusBadRequest, errorBody{Error: "malformed request body"})
		return
	}
	if req.PaymentHeader == "" {
		responders.JSON(w, http.StatusBadRequest, errorBody{Error: "paymentHeader is required"})
		return
	}

	resp := h.service.Settle(r.Context(), &req)
	responders.JSON(w, http.StatusOK, resp)
}

func (h *handlers) transaction(w http.ResponseWriter, r *http.Request) {
	signature := chi.URLParam(r, "signature")
	network := x402.Network(r.URL.Query().Get("network"))
	if network == "" {
		responders.JSON(w, http.StatusBadRequest, errorBody{Error: "network query parameter is required"})
		return
	}

	resp, err := h.service.TransactionStatus(r.Context(), network, signature)
	if err != nil {
		if x402.CodeOf(err) == x402.ErrInternal {
			responders.JSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
			return
		}
		// Per spec §6.1, /transaction always answers inside a 200 body —
		// an unsupported network or malformed signature is a negative
		// answer about that signature, not a request-level failure.
		reason := err.Error()
		responders.JSON(w, http.StatusOK, TransactionResponse{Confirmed: false, Error: &reason})
		return
	}
	responders.JSON(w, http.StatusOK, resp)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	responders.JSON(w, http.StatusNotFound, errorBody{Error: "not found"})
}
