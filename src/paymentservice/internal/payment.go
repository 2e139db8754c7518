package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Sudharsan1-5/SudharsanBuilds/internal/platform"
)

const (
	defaultCurrency = "INR"

	// Upper bound for a vendor call including every retry. The call is
	// detached from the client, so this is the only thing that stops it.
	vendorBudget = 30 * time.Second

	keyOrderCreated    = "payment.order.created"
	keyPaymentCaptured = "payment.captured"
)

type PaymentService struct {
	orders   OrderCreator
	verifier SignatureVerifier
	store    PaymentStorage
	events   platform.Publisher

	sleep sleepFunc
	now   func() time.Time
}

func NewPaymentService(orders OrderCreator, verifier SignatureVerifier, store PaymentStorage, events platform.Publisher) *PaymentService {
	return &PaymentService{
		orders:   orders,
		verifier: verifier,
		store:    store,
		events:   events,
		sleep:    sleepContext,
		now:      time.Now,
	}
}

// CreateOrder checks the CSRF token, then creates a vendor order with
// retries. Token failures never reach the vendor.
func (x *PaymentService) CreateOrder(ctx context.Context, csrfToken string, in *CreateOrderRequest) (*CreateOrderResponse, error) {

	if err := checkCSRFToken(csrfToken); err != nil {
		return nil, err
	}

	if in.Currency == "" {
		in.Currency = defaultCurrency
	}
	in.Currency = strings.ToUpper(in.Currency)
	if in.Notes == nil {
		in.Notes = map[string]any{}
	}

	if err := ValidateStruct(in); err != nil {
		return nil, err
	}

	slog.Info("creating payment order", "amount", in.Amount, "currency", in.Currency, "receipt", in.Receipt)

	// Once started the vendor call runs to completion or exhausts its
	// retries, whatever the client does.
	vendorCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), vendorBudget)
	defer cancel()

	order, err := retryWithBackoff(vendorCtx, maxVendorAttempts, x.sleep, "razorpay order creation",
		func(ctx context.Context) (*VendorOrder, error) {
			return x.orders.CreateOrder(ctx, in.Amount, in.Currency, in.Receipt, in.Notes)
		})
	if err != nil {
		slog.Error("create vendor order", "receipt", in.Receipt, "err", err)
		return nil, fmt.Errorf("%w: %v", errOrderCreation, err)
	}

	if order.Amount == 0 {
		order.Amount = in.Amount
	}
	if order.Currency == "" {
		order.Currency = in.Currency
	}

	x.record(vendorCtx, order, in)

	slog.Info("payment order created", "orderId", order.ID)

	return &CreateOrderResponse{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
	}, nil
}

// record stores the order and announces it. The vendor order already
// exists at this point, so failures are logged and the caller still gets
// its order id.
func (x *PaymentService) record(ctx context.Context, order *VendorOrder, in *CreateOrderRequest) {
	err := x.store.Save(ctx, &dbPaymentOrder{
		VendorOrderID: order.ID,
		Receipt:       in.Receipt,
		Amount:        order.Amount,
		Currency:      order.Currency,
		Notes:         in.Notes,
		Status:        OrderStatusCreated,
		CreatedAt:     x.now().UTC(),
	})
	if err != nil {
		slog.Error("save payment order", "orderId", order.ID, "err", err)
	}

	err = x.events.Publish(ctx, keyOrderCreated, &orderCreatedEvent{
		OrderID:  order.ID,
		Receipt:  in.Receipt,
		Amount:   order.Amount,
		Currency: order.Currency,
		Notes:    in.Notes,
	})
	if err != nil {
		slog.Error("publish order created", "orderId", order.ID, "err", err)
	}
}

// VerifyPayment checks the vendor signature and marks the order paid.
func (x *PaymentService) VerifyPayment(ctx context.Context, csrfToken string, in *VerifyPaymentRequest) (*VerifyPaymentResponse, error) {

	if err := checkCSRFToken(csrfToken); err != nil {
		return nil, err
	}

	if err := ValidateStruct(in); err != nil {
		return nil, err
	}

	if !x.verifier.VerifySignature(in.OrderID, in.PaymentID, in.Signature) {
		slog.Warn("payment signature mismatch", "orderId", in.OrderID, "paymentId", in.PaymentID)
		return nil, errInvalidSignature
	}

	if _, err := x.store.MarkPaid(ctx, in.OrderID, in.PaymentID); err != nil {
		if errors.Is(err, errOrderNotFound) {
			return nil, err
		}
		slog.Error("mark order paid", "orderId", in.OrderID, "err", err)
		return nil, errLedger
	}

	err := x.events.Publish(ctx, keyPaymentCaptured, &paymentCapturedEvent{
		OrderID:   in.OrderID,
		PaymentID: in.PaymentID,
	})
	if err != nil {
		slog.Error("publish payment captured", "orderId", in.OrderID, "err", err)
	}

	return &VerifyPaymentResponse{
		Verified:  true,
		OrderID:   in.OrderID,
		PaymentID: in.PaymentID,
	}, nil
}
