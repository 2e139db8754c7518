package internal

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/plutov/paypal/v4"
)

// paypalAPI is the part of the PayPal SDK client the gateway uses.
type paypalAPI interface {
	GetAccessToken(ctx context.Context) (*paypal.TokenResponse, error)
	CreateOrder(ctx context.Context, intent string, purchaseUnits []paypal.PurchaseUnitRequest, payer *paypal.CreateOrderPayer, appContext *paypal.ApplicationContext) (*paypal.Order, error)
	CaptureOrder(ctx context.Context, orderID string, captureOrderRequest paypal.CaptureOrderRequest) (*paypal.CaptureOrderResponse, error)
}

type paypalOptions struct {
	ClientID string `json:"clientId"`
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

type paypalGateway struct {
	api      paypalAPI
	clientID string
}

// NewPayPalGateway connects to the sandbox unless live is set.
func NewPayPalGateway(clientID, secret string, live bool) (*paypalGateway, error) {
	base := paypal.APIBaseSandBox
	if live {
		base = paypal.APIBaseLive
	}

	c, err := paypal.NewClient(clientID, secret, base)
	if err != nil {
		return nil, fmt.Errorf("create paypal client: %w", err)
	}
	return &paypalGateway{api: c, clientID: clientID}, nil
}

func (g *paypalGateway) Name() GatewayName { return GatewayPayPal }

// PayPal is either usable or not; there is nothing to wait for.
func (g *paypalGateway) ReadyPolicy() ReadyPolicy {
	return ReadyPolicy{Attempts: 1}
}

func (g *paypalGateway) Ready(ctx context.Context) error {
	if _, err := g.api.GetAccessToken(ctx); err != nil {
		return fmt.Errorf("paypal access token: %w", err)
	}
	return nil
}

func (g *paypalGateway) CreateOrder(ctx context.Context, in *OrderRequest) (*Order, error) {
	value := strconv.FormatFloat(float64(in.Service.DepositAmount)/in.Currency.ExchangeRate, 'f', 2, 64)

	order, err := g.api.CreateOrder(ctx, paypal.OrderIntentCapture, []paypal.PurchaseUnitRequest{
		{
			Amount: &paypal.PurchaseUnitAmount{
				Currency: in.Currency.Code,
				Value:    value,
			},
			Description: "Deposit for " + in.Service.Name,
			CustomID:    fmt.Sprintf("%s|%s|%s|%s", in.Customer.Name, in.Customer.Email, in.Customer.Phone, in.Service.Name),
		},
	}, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("paypal create order: %w", err)
	}

	f, _ := strconv.ParseFloat(value, 64)
	return &Order{
		Gateway:  GatewayPayPal,
		OrderID:  order.ID,
		Amount:   int64(math.Round(f * 100)),
		Currency: in.Currency.Code,
		Options: &paypalOptions{
			ClientID: g.clientID,
			Currency: in.Currency.Code,
			Value:    value,
		},
	}, nil
}

// Confirm captures the approved order. PayPal needs no CSRF token.
func (g *paypalGateway) Confirm(ctx context.Context, approval *Approval, _ string) (*Payment, error) {
	res, err := g.api.CaptureOrder(ctx, approval.OrderID, paypal.CaptureOrderRequest{})
	if err != nil {
		return nil, fmt.Errorf("paypal capture order: %w", err)
	}
	if res.Status != "COMPLETED" {
		return nil, fmt.Errorf("paypal capture order %s: status %s", approval.OrderID, res.Status)
	}

	return &Payment{
		Gateway:   GatewayPayPal,
		OrderID:   approval.OrderID,
		PaymentID: res.ID,
	}, nil
}
