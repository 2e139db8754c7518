package internal

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Sudharsan1-5/SudharsanBuilds/internal/platform"
)

const allowHeaders = "authorization, x-client-info, apikey, content-type, x-csrf-token"

// NewHandler routes the payment endpoints. Every route answers CORS
// preflight requests.
func NewHandler(s *PaymentService) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /create-payment-order", s.handleCreateOrder)
	mux.HandleFunc("POST /verify-payment", s.handleVerifyPayment)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	return platform.CORS(allowHeaders)(mux)
}

func (x *PaymentService) handleCreateOrder(w http.ResponseWriter, r *http.Request) {

	// Token is checked before the body so a bad token never costs a decode.
	token := r.Header.Get("x-csrf-token")
	if err := checkCSRFToken(token); err != nil {
		slog.Warn("rejected payment request", "err", err)
		writeError(w, http.StatusForbidden, err)
		return
	}

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidBody)
		return
	}

	res, err := x.CreateOrder(r.Context(), token, &req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	platform.WriteJSON(w, http.StatusOK, res)
}

func (x *PaymentService) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {

	token := r.Header.Get("x-csrf-token")
	if err := checkCSRFToken(token); err != nil {
		writeError(w, http.StatusForbidden, err)
		return
	}

	var req VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidBody)
		return
	}

	res, err := x.VerifyPayment(r.Context(), token, &req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	platform.WriteJSON(w, http.StatusOK, res)
}

// Anything not listed is the caller's fault, including vendor failures
// during order creation.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errCSRFMissing), errors.Is(err, errCSRFInvalid):
		return http.StatusForbidden
	case errors.Is(err, errOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, errLedger):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	platform.WriteJSON(w, status, map[string]string{"error": err.Error()})
}
