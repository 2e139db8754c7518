package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	razorpayScriptURL = "https://checkout.razorpay.com/v1/checkout.js"

	merchantName = "Sudharsan Builds"
	themeColor   = "#06b6d4"
)

type razorpayPrefill struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

type razorpayTheme struct {
	Color string `json:"color"`
}

// razorpayOptions is handed to the Razorpay checkout constructor.
type razorpayOptions struct {
	Key         string          `json:"key"`
	Amount      int64           `json:"amount"`
	Currency    string          `json:"currency"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	OrderID     string          `json:"order_id"`
	Prefill     razorpayPrefill `json:"prefill"`
	Theme       razorpayTheme   `json:"theme"`
}

type razorpayGateway struct {
	keyID      string
	paymentURL string
	scriptURL  string
	client     *http.Client
}

// NewRazorpayGateway creates orders through the payment service at
// paymentURL. keyID is the public key the browser checkout needs.
func NewRazorpayGateway(keyID, paymentURL string) *razorpayGateway {
	return &razorpayGateway{
		keyID:      keyID,
		paymentURL: paymentURL,
		scriptURL:  razorpayScriptURL,
		client:     &http.Client{Timeout: 40 * time.Second},
	}
}

func (g *razorpayGateway) Name() GatewayName { return GatewayRazorpay }

// The checkout script can take a while to become reachable, poll 30 times
// every 500ms.
func (g *razorpayGateway) ReadyPolicy() ReadyPolicy {
	return ReadyPolicy{Attempts: 30, Interval: 500 * time.Millisecond}
}

func (g *razorpayGateway) Ready(ctx context.Context) error {
	if g.keyID == "" || g.paymentURL == "" {
		return errNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, g.scriptURL, nil)
	if err != nil {
		return err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("probe razorpay checkout: %w", err)
	}
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("probe razorpay checkout: status %d", resp.StatusCode)
	}
	return nil
}

type createOrderBody struct {
	Amount   int64          `json:"amount"`
	Currency string         `json:"currency"`
	Receipt  string         `json:"receipt"`
	Notes    map[string]any `json:"notes"`
}

type createOrderReply struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Error    string `json:"error"`
}

func (g *razorpayGateway) CreateOrder(ctx context.Context, in *OrderRequest) (*Order, error) {
	total := in.Service.TotalAmount
	if total == 0 {
		total = in.Service.DepositAmount
	}

	body := &createOrderBody{
		Amount:   in.Service.DepositAmount * 100,
		Currency: in.Currency.Code,
		Receipt:  in.Receipt,
		Notes: map[string]any{
			"service_name":   in.Service.Name,
			"service_price":  in.Service.Price,
			"total_amount":   total,
			"deposit_amount": in.Service.DepositAmount,
			"customer_name":  in.Customer.Name,
			"customer_email": in.Customer.Email,
			"customer_phone": in.Customer.Phone,
		},
	}

	var reply createOrderReply
	if err := g.post(ctx, "/create-payment-order", in.CSRFToken, body, &reply); err != nil {
		return nil, err
	}

	return &Order{
		Gateway:  GatewayRazorpay,
		OrderID:  reply.OrderID,
		Amount:   reply.Amount,
		Currency: in.Currency.Code,
		Options: &razorpayOptions{
			Key:         g.keyID,
			Amount:      reply.Amount,
			Currency:    in.Currency.Code,
			Name:        merchantName,
			Description: "Deposit for " + in.Service.Name,
			OrderID:     reply.OrderID,
			Prefill: razorpayPrefill{
				Name:    in.Customer.Name,
				Email:   in.Customer.Email,
				Contact: in.Customer.Phone,
			},
			Theme: razorpayTheme{Color: themeColor},
		},
	}, nil
}

func (g *razorpayGateway) Confirm(ctx context.Context, approval *Approval, csrfToken string) (*Payment, error) {
	body := map[string]string{
		"razorpay_order_id":   approval.OrderID,
		"razorpay_payment_id": approval.PaymentID,
		"razorpay_signature":  approval.Signature,
	}

	var reply struct {
		Verified bool   `json:"verified"`
		Error    string `json:"error"`
	}
	if err := g.post(ctx, "/verify-payment", csrfToken, body, &reply); err != nil {
		return nil, err
	}
	if !reply.Verified {
		return nil, fmt.Errorf("razorpay payment %s not verified", approval.PaymentID)
	}

	return &Payment{
		Gateway:   GatewayRazorpay,
		OrderID:   approval.OrderID,
		PaymentID: approval.PaymentID,
	}, nil
}

// post sends body as JSON to the payment service and decodes a 2xx reply
// into out.
func (g *razorpayGateway) post(ctx context.Context, path, csrfToken string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.paymentURL+path, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-CSRF-Token", csrfToken)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("payment service request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &e) == nil && e.Error != "" {
			return fmt.Errorf("payment service %s (%d): %s", path, resp.StatusCode, e.Error)
		}
		return fmt.Errorf("payment service %s: status %d", path, resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
