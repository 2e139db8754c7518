package internal

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// SuccessStep is one message of the overlay shown after a payment.
type SuccessStep struct {
	Message string        `json:"message"`
	Hold    time.Duration `json:"-"`
}

var successSteps = []SuccessStep{
	{Message: "✓ Payment Successful!", Hold: 800 * time.Millisecond},
	{Message: "Generating invoice...", Hold: 1000 * time.Millisecond},
	{Message: "Sending confirmation email...", Hold: 1000 * time.Millisecond},
	{Message: "Redirecting...", Hold: 500 * time.Millisecond},
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runSuccessSequence emits every step and holds it. A cancelled context
// cuts the holds short but every step is still emitted, so the sequence
// always reaches the redirect.
func runSuccessSequence(ctx context.Context, sleep Sleeper, emit func(SuccessStep)) {
	for _, step := range successSteps {
		emit(step)
		if ctx.Err() == nil {
			sleep(ctx, step.Hold)
		}
	}
}

// ConfirmationURL is where the customer lands after paying.
func ConfirmationURL(gateway GatewayName, paymentID, serviceName string, deposit int64) string {
	return fmt.Sprintf("/payment-confirmation?status=success&gateway=%s&id=%s&service=%s&amount=%d",
		gateway, encodeComponent(paymentID), encodeComponent(serviceName), deposit)
}

// encodeComponent escapes like encodeURIComponent: spaces become %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
