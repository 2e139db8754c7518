package internal

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Classification matches substrings of the vendor's error text. Vendors
// reword messages freely, so the status code checks are the reliable part.

const supportEmail = "sudharsanofficial0001@gmail.com"

func classifyVendorError(e *vendorError) *chatError {
	msg := vendorErrorMessage(e.Body)

	switch {
	case e.Status == http.StatusTooManyRequests || containsAny(msg, "quota", "rate limit"):
		return &chatError{
			Status:      http.StatusTooManyRequests,
			Code:        "QUOTA_EXCEEDED",
			Message:     "⚠️ AI service is temporarily at capacity. Please try again in a moment.",
			UserMessage: "I'm experiencing high demand right now. Please wait a moment and try again!",
		}
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden || containsAny(msg, "auth", "api key"):
		return &chatError{
			Status:      http.StatusServiceUnavailable,
			Code:        "AUTH_ERROR",
			Message:     "❌ AI service authentication failed. Please contact support.",
			UserMessage: "I'm having trouble connecting to my AI service. Please contact support at " + supportEmail,
		}
	case e.Status == http.StatusRequestTimeout || e.Status == http.StatusGatewayTimeout || containsAny(msg, "timeout", "network"):
		return &chatError{
			Status:      http.StatusGatewayTimeout,
			Code:        "NETWORK_ERROR",
			Message:     "⚠️ Network timeout. Please check your connection and try again.",
			UserMessage: "The request timed out. Please check your internet connection and try again.",
		}
	case e.Status == http.StatusBadRequest || containsAny(msg, "invalid", "bad request"):
		return &chatError{
			Status:      http.StatusBadRequest,
			Code:        "INVALID_REQUEST",
			Message:     "❌ Invalid request format. Please try rephrasing your question.",
			UserMessage: "I couldn't understand that request. Please try asking in a different way.",
		}
	case e.Status >= 500:
		return &chatError{
			Status:      http.StatusServiceUnavailable,
			Code:        "SERVER_ERROR",
			Message:     "❌ AI service is temporarily unavailable. Please try again later.",
			UserMessage: "The AI service is experiencing issues. Please try again in a few minutes.",
		}
	default:
		return &chatError{
			Status:       e.Status,
			Code:         "UNKNOWN_ERROR",
			Message:      "Failed to get response from AI service",
			UserMessage:  "Something went wrong. Please try again or contact support.",
			VendorStatus: e.Status,
		}
	}
}

// classifyStreamError maps a failed stream start. Only quota and auth get
// their own category.
func classifyStreamError(e *vendorError) *chatError {
	msg := strings.ToLower(e.Body)

	switch {
	case e.Status == http.StatusTooManyRequests || containsAny(msg, "quota", "rate limit"):
		return &chatError{
			Status:      http.StatusTooManyRequests,
			Code:        "QUOTA_EXCEEDED",
			UserMessage: "I'm experiencing high demand right now. Please wait a moment and try again!",
		}
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return &chatError{
			Status:      http.StatusServiceUnavailable,
			Code:        "AUTH_ERROR",
			UserMessage: "I'm having trouble connecting. Please contact support at " + supportEmail,
		}
	default:
		return &chatError{
			Status:      e.Status,
			Code:        "STREAMING_ERROR",
			UserMessage: "Failed to initialize streaming. Please try again.",
		}
	}
}

// classifyError turns any relay failure into the response the client sees.
func classifyError(err error, streaming bool) *chatError {
	var (
		ce *chatError
		ve *vendorError
		te *transportError
		pe *parseError
	)

	switch {
	case errors.As(err, &ce):
		return ce
	case errors.As(err, &ve):
		if streaming {
			return classifyStreamError(ve)
		}
		return classifyVendorError(ve)
	case errors.As(err, &te):
		return &chatError{
			Status:      http.StatusServiceUnavailable,
			Code:        "NETWORK_ERROR",
			Message:     "Network connection issue",
			UserMessage: "I'm having trouble connecting. Please check your internet and try again.",
		}
	case errors.As(err, &pe):
		return &chatError{
			Status:      http.StatusInternalServerError,
			Code:        "PARSE_ERROR",
			Message:     "Failed to parse API response",
			UserMessage: "I received an unexpected response. Please try again.",
		}
	default:
		return &chatError{
			Status:      http.StatusInternalServerError,
			Code:        "UNEXPECTED_ERROR",
			Message:     "Unexpected error",
			UserMessage: "I'm experiencing technical difficulties. Please try again in a moment.",
		}
	}
}

// vendorErrorMessage prefers error.message, then message, then the raw
// body. The result is lowercased.
func vendorErrorMessage(body string) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err == nil {
		if parsed.Error.Message != "" {
			return strings.ToLower(parsed.Error.Message)
		}
		if parsed.Message != "" {
			return strings.ToLower(parsed.Message)
		}
	}
	return strings.ToLower(body)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
