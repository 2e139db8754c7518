package internal

import "errors"

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")

	errInvalidBody        = errors.New("invalid request body")
	errNoActiveFooter     = errors.New("Footer config not found")
	errNoToken            = errors.New("token must be provided")
	errInvalidToken       = errors.New("invalid token")
	errNotAdmin           = errors.New("Access denied: You do not have the required permissions")
	errInvalidCredentials = errors.New("username or password incorrect")
	errGenerateToken      = errors.New("failed to generate authentication token")
)
