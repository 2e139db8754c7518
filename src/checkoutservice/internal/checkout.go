package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Sudharsan1-5/SudharsanBuilds/internal/catalog"
)

type State string

const (
	StateIdle                       State = "Idle"
	StateValidating                 State = "Validating"
	StateValidationFailed           State = "ValidationFailed"
	StateWaitingForGatewayReady     State = "WaitingForGatewayReady"
	StateCreatingOrder              State = "CreatingOrder"
	StateOrderCreationFailed        State = "OrderCreationFailed"
	StateAwaitingVendorConfirmation State = "AwaitingVendorConfirmation"
	StatePaymentSucceeded           State = "PaymentSucceeded"
	StateShowingSuccessOverlay      State = "ShowingSuccessOverlay"
	StateRedirecting                State = "Redirecting"
)

// Snapshot is a read-only view of a checkout.
type Snapshot struct {
	ID       string          `json:"sessionId"`
	Service  catalog.Service `json:"service"`
	Region   Region          `json:"region"`
	Deposit  string          `json:"deposit"`
	State    State           `json:"state"`
	Loading  bool            `json:"loading"`
	Order    *Order          `json:"order,omitempty"`
	Redirect string          `json:"redirect,omitempty"`
}

// Checkout drives one booking from form to redirect. At most one payment
// attempt is in flight at a time; loading is cleared on every error path
// and when the vendor checkout is dismissed.
type Checkout struct {
	id      string
	service catalog.Service
	region  Region
	gateway Gateway
	tokens  TokenStore

	sleep Sleeper
	now   func() time.Time

	mu         sync.Mutex
	state      State
	loading    bool
	confirming bool
	order      *Order
	redirect   string
}

// NewCheckout starts in Idle. The session's CSRF token is read from tokens
// whenever the payment service is called.
func NewCheckout(id string, service catalog.Service, region Region, gateway Gateway, tokens TokenStore) *Checkout {
	return &Checkout{
		id:      id,
		service: service,
		region:  region,
		gateway: gateway,
		tokens:  tokens,
		sleep:   sleepContext,
		now:     time.Now,
		state:   StateIdle,
	}
}

func (c *Checkout) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		ID:       c.id,
		Service:  c.service,
		Region:   c.region,
		Deposit:  c.region.Currency.Format(c.service.DepositAmount),
		State:    c.state,
		Loading:  c.loading,
		Order:    c.order,
		Redirect: c.redirect,
	}
}

// Validate checks the form as the customer types. It never changes state.
func (c *Checkout) Validate(ctx context.Context, details *CustomerDetails) (*ValidationResult, error) {
	return ValidateCustomer(ctx, details, c.region.PhoneRegion)
}

// Pay validates the form, waits for the gateway and creates the vendor
// order. On success the checkout waits for the vendor confirmation.
func (c *Checkout) Pay(ctx context.Context, details *CustomerDetails) (*Order, error) {

	if !c.service.Bookable() {
		return nil, ErrNotBookable
	}

	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return nil, ErrPaymentInProgress
	}
	c.loading = true
	c.order = nil
	c.state = StateValidating
	c.mu.Unlock()

	res, err := ValidateCustomer(ctx, details, c.region.PhoneRegion)
	if err != nil {
		c.reset()
		return nil, err
	}
	if !res.Valid {
		c.transition(StateValidationFailed)
		c.reset()
		return nil, &ValidationError{Result: res}
	}

	c.transition(StateWaitingForGatewayReady)

	if err := c.waitReady(ctx); err != nil {
		slog.Warn("payment gateway not ready", "session", c.id, "gateway", c.gateway.Name(), "err", err)
		c.reset()
		if errors.Is(err, errNotConfigured) {
			return nil, err
		}
		return nil, errGatewayNotReady
	}

	c.transition(StateCreatingOrder)

	token, err := c.tokens.Token(ctx, c.id)
	if err != nil {
		c.transition(StateOrderCreationFailed)
		c.reset()
		return nil, err
	}

	order, err := c.gateway.CreateOrder(ctx, &OrderRequest{
		Service:   c.service,
		Customer:  *details,
		Currency:  c.region.Currency,
		CSRFToken: token,
		Receipt:   c.receipt(),
	})
	if err != nil {
		slog.Error("create payment order", "session", c.id, "gateway", c.gateway.Name(), "err", err)
		c.transition(StateOrderCreationFailed)
		c.reset()
		return nil, fmt.Errorf("%w: %v", errOrderCreation, err)
	}

	c.mu.Lock()
	c.order = order
	c.state = StateAwaitingVendorConfirmation
	c.mu.Unlock()

	return order, nil
}

// Confirm settles the approved payment, plays the success sequence
// through emit and returns the confirmation URL.
func (c *Checkout) Confirm(ctx context.Context, approval *Approval, emit func(SuccessStep)) (string, error) {

	c.mu.Lock()
	if c.state != StateAwaitingVendorConfirmation || c.order == nil {
		c.mu.Unlock()
		return "", ErrNoPendingPayment
	}
	if approval.OrderID == "" {
		approval.OrderID = c.order.OrderID
	}
	if approval.OrderID != c.order.OrderID {
		c.mu.Unlock()
		return "", fmt.Errorf("%w: order %s", ErrNoPendingPayment, approval.OrderID)
	}
	if c.confirming {
		c.mu.Unlock()
		return "", ErrPaymentInProgress
	}
	c.confirming = true
	c.mu.Unlock()

	payment, err := c.settle(ctx, approval)
	if err != nil {
		slog.Error("confirm payment", "session", c.id, "order", approval.OrderID, "err", err)
		c.abortConfirm()
		return "", err
	}

	c.transition(StatePaymentSucceeded)
	slog.Info("payment succeeded", "session", c.id, "gateway", payment.Gateway, "payment", payment.PaymentID)

	c.transition(StateShowingSuccessOverlay)
	runSuccessSequence(ctx, c.sleep, emit)

	url := ConfirmationURL(payment.Gateway, payment.PaymentID, c.service.Name, c.service.DepositAmount)

	c.mu.Lock()
	c.state = StateRedirecting
	c.loading = false
	c.confirming = false
	c.redirect = url
	c.mu.Unlock()

	return url, nil
}

func (c *Checkout) settle(ctx context.Context, approval *Approval) (*Payment, error) {
	token, err := c.tokens.Token(ctx, c.id)
	if err != nil {
		return nil, err
	}

	payment, err := c.gateway.Confirm(ctx, approval, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errConfirmation, err)
	}
	return payment, nil
}

func (c *Checkout) abortConfirm() {
	c.mu.Lock()
	c.confirming = false
	c.mu.Unlock()
	c.reset()
}

// Fail records a failure reported by the vendor checkout and returns the
// message to show.
func (c *Checkout) Fail(f VendorFailure) string {
	msg := FailureMessage(f)
	slog.Warn("vendor reported payment failure", "session", c.id, "code", f.Code, "reason", f.Reason)
	c.reset()
	return msg
}

// Dismiss is called when the customer closes the vendor checkout.
func (c *Checkout) Dismiss() {
	c.reset()
}

func (c *Checkout) waitReady(ctx context.Context) error {
	policy := c.gateway.ReadyPolicy()
	attempts := max(policy.Attempts, 1)

	var err error
	for i := 1; i <= attempts; i++ {
		if err = c.gateway.Ready(ctx); err == nil {
			return nil
		}
		// Missing credentials never fix themselves.
		if errors.Is(err, errNotConfigured) || i == attempts {
			break
		}
		if serr := c.sleep(ctx, policy.Interval); serr != nil {
			return serr
		}
	}
	return err
}

// receipt is deposit_<service slug>_<unix millis>.
func (c *Checkout) receipt() string {
	return fmt.Sprintf("deposit_%s_%d", c.service.Slug(), c.now().UnixMilli())
}

func (c *Checkout) transition(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// reset goes back to Idle and clears the loading flag. A checkout that is
// confirming or finished stays where it is.
func (c *Checkout) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.confirming || c.state == StateRedirecting {
		return
	}
	c.state = StateIdle
	c.loading = false
}
