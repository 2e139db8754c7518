package internal

import (
	"github.com/google/uuid"
)

// checkCSRFToken accepts only tokens shaped like a canonical UUID v4
// (8-4-4-4-12 hex, version nibble 4, RFC 4122 variant), any letter case.
func checkCSRFToken(token string) error {
	if token == "" {
		return errCSRFMissing
	}

	// uuid.Parse also accepts urn: and braced forms; those are rejected.
	if len(token) != 36 {
		return errCSRFInvalid
	}

	u, err := uuid.Parse(token)
	if err != nil || u.Version() != 4 || u.Variant() != uuid.RFC4122 {
		return errCSRFInvalid
	}

	return nil
}
