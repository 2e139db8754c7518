package internal

import "strings"

// VendorFailure is the error object the Razorpay checkout reports on a
// failed payment.
type VendorFailure struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Reason      string `json:"reason"`
}

const genericFailure = "❌ Payment failed. Please contact us directly via email."

// FailureMessage turns a vendor failure into text for the customer.
func FailureMessage(f VendorFailure) string {
	switch f.Code {
	case "BAD_REQUEST_ERROR":
		return "❌ Invalid payment request. Please try again or contact support."
	case "GATEWAY_ERROR":
		return "❌ Payment gateway error. Please try a different payment method."
	case "SERVER_ERROR", "NETWORK_ERROR":
		return "❌ Server error occurred. Please try again in a moment."
	}

	for _, r := range []string{"payment_failed", "card_declined", "insufficient_funds"} {
		if strings.Contains(f.Reason, r) {
			return "❌ Payment failed: " + strings.ReplaceAll(f.Reason, "_", " ") + ". Please check details and try again."
		}
	}

	if strings.Contains(strings.ToLower(f.Description), "timeout") {
		return "❌ Payment timeout. Please try again."
	}
	if f.Description != "" {
		return f.Description
	}
	return genericFailure
}
