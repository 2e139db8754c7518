package internal

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Sudharsan1-5/SudharsanBuilds/internal/catalog"
)

const testToken = "3f1c2a9e-7b4d-4c3a-9f2e-1a2b3c4d5e6f"

func TestMain(m *testing.M) {
	SetupValidator()
	os.Exit(m.Run())
}

func landingPage(t *testing.T) catalog.Service {
	t.Helper()
	s, err := catalog.Default().Lookup("Landing Page")
	require.NoError(t, err)
	return s
}

func indiaRegion(t *testing.T) Region {
	t.Helper()
	regions, err := DefaultRegions()
	require.NoError(t, err)
	r, err := regions.Resolve("india", "")
	require.NoError(t, err)
	return r
}

type recordedSleeps struct {
	holds []time.Duration
}

func (r *recordedSleeps) sleep(_ context.Context, d time.Duration) error {
	r.holds = append(r.holds, d)
	return nil
}

func newTestCheckout(t *testing.T, gw *MockGateway, tokens *MockTokenStore) (*Checkout, *recordedSleeps) {
	t.Helper()
	c := NewCheckout("session-1", landingPage(t), indiaRegion(t), gw, tokens)
	sleeps := &recordedSleeps{}
	c.sleep = sleeps.sleep
	c.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return c, sleeps
}

func razorpayMock() *MockGateway {
	gw := new(MockGateway)
	gw.On("Name").Return(GatewayRazorpay).Maybe()
	gw.On("ReadyPolicy").Return(ReadyPolicy{Attempts: 30, Interval: 500 * time.Millisecond}).Maybe()
	return gw
}

func TestCheckout_PayCreatesOrder(t *testing.T) {
	gw := razorpayMock()
	tokens := new(MockTokenStore)
	c, _ := newTestCheckout(t, gw, tokens)
	d := validDetails()

	order := &Order{Gateway: GatewayRazorpay, OrderID: "order_1", Amount: 500000, Currency: "INR"}
	gw.On("Ready", mock.Anything).Return(nil).Once()
	tokens.On("Token", mock.Anything, "session-1").Return(testToken, nil).Once()
	gw.On("CreateOrder", mock.Anything, mock.MatchedBy(func(req *OrderRequest) bool {
		return req.Service.DepositAmount == 5000 &&
			req.Currency.Code == "INR" &&
			req.CSRFToken == testToken &&
			req.Receipt == "deposit_landing_page_1700000000000" &&
			req.Customer.Email == d.Email
	})).Return(order, nil).Once()

	got, err := c.Pay(context.Background(), &d)

	require.NoError(t, err)
	assert.Equal(t, order, got)

	snap := c.Snapshot()
	assert.Equal(t, StateAwaitingVendorConfirmation, snap.State)
	assert.True(t, snap.Loading)
	assert.Equal(t, "₹5,000", snap.Deposit)
	gw.AssertExpectations(t)
	tokens.AssertExpectations(t)
}

func TestCheckout_PayValidationFailure(t *testing.T) {
	gw := razorpayMock()
	tokens := new(MockTokenStore)
	c, _ := newTestCheckout(t, gw, tokens)
	d := validDetails()
	d.Email = "not-an-email"

	_, err := c.Pay(context.Background(), &d)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "Please enter a valid email address", valErr.Result.ErrorFor("email"))
	assert.Equal(t, "checkout-email", valErr.Result.FocusElement)

	snap := c.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.False(t, snap.Loading)
	gw.AssertNotCalled(t, "Ready", mock.Anything)
	gw.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestCheckout_PayNotBookable(t *testing.T) {
	gw := razorpayMock()
	custom, err := catalog.Default().Lookup("Custom Development")
	require.NoError(t, err)
	c := NewCheckout("session-1", custom, indiaRegion(t), gw, new(MockTokenStore))
	d := validDetails()

	_, err = c.Pay(context.Background(), &d)

	assert.ErrorIs(t, err, ErrNotBookable)
	assert.False(t, c.Snapshot().Loading)
}

func TestCheckout_PayWaitsForGateway(t *testing.T) {
	t.Run("ready after a few polls", func(t *testing.T) {
		gw := razorpayMock()
		tokens := new(MockTokenStore)
		c, sleeps := newTestCheckout(t, gw, tokens)
		d := validDetails()

		gw.On("Ready", mock.Anything).Return(errors.New("script not loaded")).Times(3)
		gw.On("Ready", mock.Anything).Return(nil).Once()
		tokens.On("Token", mock.Anything, "session-1").Return(testToken, nil)
		gw.On("CreateOrder", mock.Anything, mock.Anything).Return(&Order{OrderID: "order_1"}, nil)

		_, err := c.Pay(context.Background(), &d)

		require.NoError(t, err)
		assert.Equal(t, []time.Duration{500 * time.Millisecond, 500 * time.Millisecond, 500 * time.Millisecond}, sleeps.holds)
	})

	t.Run("gives up after thirty polls", func(t *testing.T) {
		gw := razorpayMock()
		tokens := new(MockTokenStore)
		c, sleeps := newTestCheckout(t, gw, tokens)
		d := validDetails()

		gw.On("Ready", mock.Anything).Return(errors.New("script not loaded"))

		_, err := c.Pay(context.Background(), &d)

		assert.ErrorIs(t, err, errGatewayNotReady)
		gw.AssertNumberOfCalls(t, "Ready", 30)
		assert.Len(t, sleeps.holds, 29)

		snap := c.Snapshot()
		assert.Equal(t, StateIdle, snap.State)
		assert.False(t, snap.Loading)
	})

	t.Run("missing credentials are not polled", func(t *testing.T) {
		tokens := new(MockTokenStore)
		c := NewCheckout("session-1", landingPage(t), indiaRegion(t), NewRazorpayGateway("", ""), tokens)
		sleeps := &recordedSleeps{}
		c.sleep = sleeps.sleep
		d := validDetails()

		_, err := c.Pay(context.Background(), &d)

		assert.ErrorIs(t, err, errNotConfigured)
		assert.NotErrorIs(t, err, errGatewayNotReady)
		assert.Empty(t, sleeps.holds)
		tokens.AssertNotCalled(t, "Token", mock.Anything, mock.Anything)

		snap := c.Snapshot()
		assert.Equal(t, StateIdle, snap.State)
		assert.False(t, snap.Loading)
	})
}

func TestCheckout_PayOrderCreationFailure(t *testing.T) {
	gw := razorpayMock()
	tokens := new(MockTokenStore)
	c, _ := newTestCheckout(t, gw, tokens)
	d := validDetails()

	gw.On("Ready", mock.Anything).Return(nil)
	tokens.On("Token", mock.Anything, "session-1").Return(testToken, nil)
	gw.On("CreateOrder", mock.Anything, mock.Anything).Return(nil, errors.New("payment service /create-payment-order: status 500"))

	_, err := c.Pay(context.Background(), &d)

	assert.ErrorIs(t, err, errOrderCreation)
	snap := c.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.False(t, snap.Loading)

	// The customer can retry straight away.
	_, err = c.Pay(context.Background(), &d)
	assert.ErrorIs(t, err, errOrderCreation)
}

func TestCheckout_PayRejectsSecondAttempt(t *testing.T) {
	gw := razorpayMock()
	tokens := new(MockTokenStore)
	c, _ := newTestCheckout(t, gw, tokens)
	d := validDetails()

	gw.On("Ready", mock.Anything).Return(nil)
	tokens.On("Token", mock.Anything, "session-1").Return(testToken, nil)
	gw.On("CreateOrder", mock.Anything, mock.Anything).Return(&Order{OrderID: "order_1"}, nil).Once()

	_, err := c.Pay(context.Background(), &d)
	require.NoError(t, err)

	_, err = c.Pay(context.Background(), &d)
	assert.ErrorIs(t, err, ErrPaymentInProgress)
	gw.AssertNumberOfCalls(t, "CreateOrder", 1)
}

func payThrough(t *testing.T, c *Checkout, gw *MockGateway, tokens *MockTokenStore) {
	t.Helper()
	d := validDetails()
	gw.On("Ready", mock.Anything).Return(nil)
	tokens.On("Token", mock.Anything, "session-1").Return(testToken, nil)
	gw.On("CreateOrder", mock.Anything, mock.Anything).Return(&Order{Gateway: GatewayRazorpay, OrderID: "order_1", Amount: 500000, Currency: "INR"}, nil)

	_, err := c.Pay(context.Background(), &d)
	require.NoError(t, err)
}

func TestCheckout_Confirm(t *testing.T) {
	gw := razorpayMock()
	tokens := new(MockTokenStore)
	c, sleeps := newTestCheckout(t, gw, tokens)
	payThrough(t, c, gw, tokens)

	approval := &Approval{OrderID: "order_1", PaymentID: "pay_29QQoUBi66xm2f", Signature: "abc123"}
	gw.On("Confirm", mock.Anything, approval, testToken).
		Return(&Payment{Gateway: GatewayRazorpay, OrderID: "order_1", PaymentID: "pay_29QQoUBi66xm2f"}, nil).Once()

	var messages []string
	url, err := c.Confirm(context.Background(), approval, func(s SuccessStep) {
		messages = append(messages, s.Message)
	})

	require.NoError(t, err)
	assert.Equal(t, []string{
		"✓ Payment Successful!",
		"Generating invoice...",
		"Sending confirmation email...",
		"Redirecting...",
	}, messages)
	assert.Equal(t, []time.Duration{800 * time.Millisecond, time.Second, time.Second, 500 * time.Millisecond}, sleeps.holds)
	assert.Equal(t, "/payment-confirmation?status=success&gateway=razorpay&id=pay_29QQoUBi66xm2f&service=Landing%20Page&amount=5000", url)

	snap := c.Snapshot()
	assert.Equal(t, StateRedirecting, snap.State)
	assert.False(t, snap.Loading)
	assert.Equal(t, url, snap.Redirect)

	// A finished checkout cannot be confirmed again.
	_, err = c.Confirm(context.Background(), approval, func(SuccessStep) {})
	assert.ErrorIs(t, err, ErrNoPendingPayment)
}

func TestCheckout_ConfirmFailure(t *testing.T) {
	gw := razorpayMock()
	tokens := new(MockTokenStore)
	c, _ := newTestCheckout(t, gw, tokens)
	payThrough(t, c, gw, tokens)

	gw.On("Confirm", mock.Anything, mock.Anything, testToken).Return(nil, errors.New("signature mismatch"))

	_, err := c.Confirm(context.Background(), &Approval{PaymentID: "pay_1"}, func(SuccessStep) {
		t.Fatal("no step expected")
	})

	assert.ErrorIs(t, err, errConfirmation)
	snap := c.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.False(t, snap.Loading)
}

func TestCheckout_ConfirmWrongOrder(t *testing.T) {
	gw := razorpayMock()
	tokens := new(MockTokenStore)
	c, _ := newTestCheckout(t, gw, tokens)
	payThrough(t, c, gw, tokens)

	_, err := c.Confirm(context.Background(), &Approval{OrderID: "order_other", PaymentID: "pay_1"}, func(SuccessStep) {})

	assert.ErrorIs(t, err, ErrNoPendingPayment)
	assert.Equal(t, StateAwaitingVendorConfirmation, c.Snapshot().State)
	gw.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckout_ConfirmWithoutOrder(t *testing.T) {
	gw := razorpayMock()
	c, _ := newTestCheckout(t, gw, new(MockTokenStore))

	_, err := c.Confirm(context.Background(), &Approval{PaymentID: "pay_1"}, func(SuccessStep) {})

	assert.ErrorIs(t, err, ErrNoPendingPayment)
}

func TestCheckout_DismissAndFail(t *testing.T) {
	t.Run("dismiss clears loading", func(t *testing.T) {
		gw := razorpayMock()
		tokens := new(MockTokenStore)
		c, _ := newTestCheckout(t, gw, tokens)
		payThrough(t, c, gw, tokens)

		c.Dismiss()

		snap := c.Snapshot()
		assert.Equal(t, StateIdle, snap.State)
		assert.False(t, snap.Loading)
	})

	t.Run("vendor failure", func(t *testing.T) {
		gw := razorpayMock()
		tokens := new(MockTokenStore)
		c, _ := newTestCheckout(t, gw, tokens)
		payThrough(t, c, gw, tokens)

		msg := c.Fail(VendorFailure{Code: "GATEWAY_ERROR"})

		assert.Equal(t, "❌ Payment gateway error. Please try a different payment method.", msg)
		assert.False(t, c.Snapshot().Loading)
	})
}

func TestFailureMessage(t *testing.T) {
	tests := []struct {
		name    string
		failure VendorFailure
		want    string
	}{
		{"bad request", VendorFailure{Code: "BAD_REQUEST_ERROR"}, "❌ Invalid payment request. Please try again or contact support."},
		{"server", VendorFailure{Code: "SERVER_ERROR"}, "❌ Server error occurred. Please try again in a moment."},
		{"network", VendorFailure{Code: "NETWORK_ERROR"}, "❌ Server error occurred. Please try again in a moment."},
		{"declined", VendorFailure{Reason: "card_declined"}, "❌ Payment failed: card declined. Please check details and try again."},
		{"timeout", VendorFailure{Description: "Request Timeout"}, "❌ Payment timeout. Please try again."},
		{"description", VendorFailure{Description: "Something odd"}, "Something odd"},
		{"empty", VendorFailure{}, genericFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FailureMessage(tt.failure))
		})
	}
}

func TestSuccessSequenceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var emitted int
	slept := 0
	runSuccessSequence(ctx, func(context.Context, time.Duration) error {
		slept++
		return nil
	}, func(SuccessStep) { emitted++ })

	assert.Equal(t, 4, emitted)
	assert.Zero(t, slept)
}
