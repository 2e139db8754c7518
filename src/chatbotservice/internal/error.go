package internal

import (
	"errors"
	"fmt"
)

var (
	errEmptyMessage  = errors.New("Message cannot be empty")
	errNotConfigured = errors.New("AI service not configured")
	errNoCandidates  = errors.New("AI service returned an unexpected response")
	errInvalidBody   = errors.New("invalid request body")
)

// vendorError is a non-2xx answer from the model API. Body is only ever
// logged.
type vendorError struct {
	Status int
	Body   string
}

func (e *vendorError) Error() string {
	return fmt.Sprintf("gemini returned status %d", e.Status)
}

// transportError means the model API could not be reached.
type transportError struct {
	err error
}

func (e *transportError) Error() string { return "gemini request failed: " + e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

// parseError means the model API answered 2xx with a body we could not decode.
type parseError struct {
	err error
}

func (e *parseError) Error() string { return "decode gemini response: " + e.err.Error() }
func (e *parseError) Unwrap() error { return e.err }

// chatError is what the client sees when a reply could not be produced.
type chatError struct {
	Status int `json:"-"`

	Code         string `json:"error"`
	Message      string `json:"message,omitempty"`
	UserMessage  string `json:"userMessage,omitempty"`
	VendorStatus int    `json:"status,omitempty"`
	Success      bool   `json:"success"`
}

func (e *chatError) Error() string {
	return fmt.Sprintf("%s (%d)", e.Code, e.Status)
}
