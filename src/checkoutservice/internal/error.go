package internal

import "errors"

var (
	ErrSessionNotFound   = errors.New("checkout session not found")
	ErrNotBookable       = errors.New("this service has no deposit and cannot be booked online")
	ErrPaymentInProgress = errors.New("a payment is already in progress")
	ErrNoPendingPayment  = errors.New("no payment is awaiting confirmation")

	errNotConfigured   = errors.New("⚠️ Payment system is not configured yet. Please contact us directly via email: contact@sudharsanbuilds.com")
	errGatewayNotReady = errors.New("⚠️ Payment system failed to load. Please refresh the page and try again.")
	errOrderCreation   = errors.New("Payment failed. Please try again.")
	errConfirmation    = errors.New("Payment failed. Please try again or contact support.")
	errInvalidBody     = errors.New("invalid request body")
)

// ValidationError carries the failed form result.
type ValidationError struct {
	Result *ValidationResult
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Result.Errors.Error()
}
