package internal

import "time"

// CreateOrderRequest is the body of POST /create-payment-order. Amount is in
// minor currency units (paise for INR).
type CreateOrderRequest struct {
	Amount   int64          `json:"amount"`
	Currency string         `json:"currency"`
	Receipt  string         `json:"receipt"`
	Notes    map[string]any `json:"notes"`
}

type CreateOrderResponse struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// VerifyPaymentRequest carries the three values the Razorpay checkout
// handler receives after a successful payment.
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

type VerifyPaymentResponse struct {
	Verified  bool   `json:"verified"`
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
}

// VendorOrder is what the payment vendor returns for a created order.
type VendorOrder struct {
	ID       string
	Amount   int64
	Currency string
	Status   string
}

type dbOrderStatus string

const (
	OrderStatusCreated dbOrderStatus = "CREATED"
	OrderStatusPaid    dbOrderStatus = "PAID"
)

// Vendor order id is the primary identifier.
type dbPaymentOrder struct {
	VendorOrderID string         `bson:"_id"`
	Receipt       string         `bson:"receipt"`
	Amount        int64          `bson:"amount"`
	Currency      string         `bson:"currency"`
	Notes         map[string]any `bson:"notes"`
	Status        dbOrderStatus  `bson:"status"`
	PaymentID     string         `bson:"paymentId,omitempty"`
	CreatedAt     time.Time      `bson:"createdAt"`
	PaidAt        *time.Time     `bson:"paidAt,omitempty"`
}

// events published to the broker
type orderCreatedEvent struct {
	OrderID  string         `json:"orderId"`
	Receipt  string         `json:"receipt"`
	Amount   int64          `json:"amount"`
	Currency string         `json:"currency"`
	Notes    map[string]any `json:"notes"`
}

type paymentCapturedEvent struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
}
