package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Sudharsan1-5/SudharsanBuilds/internal/catalog"
	"github.com/Sudharsan1-5/SudharsanBuilds/internal/platform"
)

const allowHeaders = "Content-Type, Authorization"

func NewHandler(s *CheckoutService) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /checkout/services", s.handleServices)
	mux.HandleFunc("POST /checkout/sessions", s.handleStartSession)
	mux.HandleFunc("GET /checkout/sessions/{id}", s.withSession(s.handleSnapshot))
	mux.HandleFunc("POST /checkout/sessions/{id}/validate", s.withSession(s.handleValidate))
	mux.HandleFunc("POST /checkout/sessions/{id}/pay", s.withSession(s.handlePay))
	mux.HandleFunc("POST /checkout/sessions/{id}/confirm", s.withSession(s.handleConfirm))
	mux.HandleFunc("POST /checkout/sessions/{id}/failure", s.withSession(s.handleFailure))
	mux.HandleFunc("POST /checkout/sessions/{id}/dismiss", s.withSession(s.handleDismiss))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	return platform.CORS(allowHeaders)(mux)
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, c *Checkout)

func (x *CheckoutService) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := x.Session(r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		h(w, r, c)
	}
}

func (x *CheckoutService) handleServices(w http.ResponseWriter, r *http.Request) {
	platform.WriteJSON(w, http.StatusOK, x.Services())
}

func (x *CheckoutService) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errInvalidBody)
		return
	}
	if req.Locale == "" {
		req.Locale = r.Header.Get("Accept-Language")
	}

	res, err := x.StartSession(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	platform.WriteJSON(w, http.StatusCreated, res)
}

func (x *CheckoutService) handleSnapshot(w http.ResponseWriter, r *http.Request, c *Checkout) {
	platform.WriteJSON(w, http.StatusOK, c.Snapshot())
}

func (x *CheckoutService) handleValidate(w http.ResponseWriter, r *http.Request, c *Checkout) {
	var details CustomerDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		writeError(w, errInvalidBody)
		return
	}

	res, err := c.Validate(r.Context(), &details)
	if err != nil {
		writeError(w, err)
		return
	}
	platform.WriteJSON(w, http.StatusOK, res)
}

func (x *CheckoutService) handlePay(w http.ResponseWriter, r *http.Request, c *Checkout) {
	var details CustomerDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		writeError(w, errInvalidBody)
		return
	}

	order, err := c.Pay(r.Context(), &details)
	if err != nil {
		writeError(w, err)
		return
	}
	platform.WriteJSON(w, http.StatusOK, order)
}

// handleConfirm streams the success overlay as server-sent events and ends
// with a redirect event.
func (x *CheckoutService) handleConfirm(w http.ResponseWriter, r *http.Request, c *Checkout) {
	var approval Approval
	if err := json.NewDecoder(r.Body).Decode(&approval); err != nil {
		writeError(w, errInvalidBody)
		return
	}

	flusher, _ := w.(http.Flusher)
	started := false
	emit := func(step SuccessStep) {
		if !started {
			w.Header().Set("Content-Type", "text/event-stream")
			w.Header().Set("Cache-Control", "no-cache")
			w.Header().Set("Connection", "keep-alive")
			w.WriteHeader(http.StatusOK)
			started = true
		}
		writeEvent(w, "status", map[string]any{"message": step.Message, "holdMs": step.Hold.Milliseconds()})
		if flusher != nil {
			flusher.Flush()
		}
	}

	url, err := c.Confirm(r.Context(), &approval, emit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeEvent(w, "redirect", map[string]string{"url": url})
	if flusher != nil {
		flusher.Flush()
	}
}

func (x *CheckoutService) handleFailure(w http.ResponseWriter, r *http.Request, c *Checkout) {
	var body struct {
		Error VendorFailure `json:"error"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, errInvalidBody)
		return
	}

	platform.WriteJSON(w, http.StatusOK, map[string]string{"message": c.Fail(body.Error)})
}

func (x *CheckoutService) handleDismiss(w http.ResponseWriter, r *http.Request, c *Checkout) {
	c.Dismiss()
	w.WriteHeader(http.StatusNoContent)
}

func writeEvent(w http.ResponseWriter, event string, data any) {
	b, err := json.Marshal(data)
	if err != nil {
		slog.Error("encode event", "err", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, b)
}

func writeError(w http.ResponseWriter, err error) {
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		platform.WriteJSON(w, http.StatusUnprocessableEntity, valErr.Result)
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errInvalidBody), errors.Is(err, ErrNotBookable), errors.Is(err, ErrUnknownRegion):
		status = http.StatusBadRequest
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, catalog.ErrServiceNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrPaymentInProgress), errors.Is(err, ErrNoPendingPayment):
		status = http.StatusConflict
	case errors.Is(err, errGatewayNotReady), errors.Is(err, errNotConfigured):
		status = http.StatusServiceUnavailable
	case errors.Is(err, errOrderCreation), errors.Is(err, errConfirmation):
		status = http.StatusBadGateway
	}

	// Wrapped vendor detail stays in the logs.
	msg := err.Error()
	for _, known := range []error{errOrderCreation, errConfirmation, errNotConfigured} {
		if errors.Is(err, known) {
			msg = known.Error()
		}
	}

	platform.WriteJSON(w, status, map[string]string{"error": msg})
}
