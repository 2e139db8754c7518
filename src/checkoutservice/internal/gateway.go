package internal

import (
	"context"
	"time"

	"github.com/Sudharsan1-5/SudharsanBuilds/internal/catalog"
)

// ReadyPolicy says how long to wait for a gateway to become usable. One
// attempt makes readiness a precondition.
type ReadyPolicy struct {
	Attempts int
	Interval time.Duration
}

type OrderRequest struct {
	Service   catalog.Service
	Customer  CustomerDetails
	Currency  Currency
	CSRFToken string
	Receipt   string
}

// Order is everything the browser needs to open the vendor checkout.
// Amount is in minor units of Currency.
type Order struct {
	Gateway  GatewayName `json:"gateway"`
	OrderID  string      `json:"orderId"`
	Amount   int64       `json:"amount"`
	Currency string      `json:"currency"`
	Options  any         `json:"options,omitempty"`
}

// Approval is what the vendor checkout hands back once the customer has
// paid. Signature is only set by Razorpay.
type Approval struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature,omitempty"`
}

type Payment struct {
	Gateway   GatewayName `json:"gateway"`
	OrderID   string      `json:"orderId"`
	PaymentID string      `json:"paymentId"`
}

// Gateway is a payment vendor.
type Gateway interface {
	Name() GatewayName
	ReadyPolicy() ReadyPolicy
	// Ready reports whether the vendor can take a payment right now.
	Ready(ctx context.Context) error
	CreateOrder(ctx context.Context, req *OrderRequest) (*Order, error)
	// Confirm settles an approved payment with the vendor.
	Confirm(ctx context.Context, approval *Approval, csrfToken string) (*Payment, error)
}
