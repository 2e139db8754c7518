package internal

import "errors"

var (
	errCSRFMissing = errors.New("CSRF token is required for payment requests")
	errCSRFInvalid = errors.New("Invalid CSRF token format")

	errInvalidBody      = errors.New("invalid request body")
	errOrderNotFound    = errors.New("payment order not found")
	errInvalidSignature = errors.New("payment signature verification failed")
	errOrderCreation    = errors.New("failed to create payment order")
	errLedger           = errors.New("payment ledger unavailable")
)
