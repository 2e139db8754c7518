package internal

import (
	"context"
	"fmt"

	rzpsdk "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
)

// OrderCreator creates orders with the payment vendor.
type OrderCreator interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]any) (*VendorOrder, error)
}

// SignatureVerifier checks the signature returned by the vendor checkout.
type SignatureVerifier interface {
	VerifySignature(orderID, paymentID, signature string) bool
}

type razorpayClient struct {
	client *rzpsdk.Client
	secret string
}

// NewRazorpay returns a Razorpay backed OrderCreator and SignatureVerifier.
func NewRazorpay(keyID, keySecret string) *razorpayClient {
	return &razorpayClient{
		client: rzpsdk.NewClient(keyID, keySecret),
		secret: keySecret,
	}
}

func (r *razorpayClient) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]any) (*VendorOrder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}

	type result struct {
		body map[string]interface{}
		err  error
	}

	// the SDK has no context support
	done := make(chan result, 1)
	go func() {
		body, err := r.client.Order.Create(data, nil)
		done <- result{body, err}
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.err != nil {
		return nil, fmt.Errorf("razorpay create order: %w", res.err)
	}

	return vendorOrderFromBody(res.body)
}

// VerifySignature checks hex(HMAC-SHA256(order_id|payment_id, key_secret)).
func (r *razorpayClient) VerifySignature(orderID, paymentID, signature string) bool {
	params := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}
	return utils.VerifyPaymentSignature(params, signature, r.secret)
}

func vendorOrderFromBody(body map[string]interface{}) (*VendorOrder, error) {
	id, _ := body["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("razorpay create order: response has no order id")
	}

	order := &VendorOrder{ID: id}
	order.Currency, _ = body["currency"].(string)
	order.Status, _ = body["status"].(string)

	// JSON numbers decode as float64
	switch v := body["amount"].(type) {
	case float64:
		order.Amount = int64(v)
	case int64:
		order.Amount = v
	case int:
		order.Amount = int64(v)
	}

	return order, nil
}
