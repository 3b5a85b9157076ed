package momo

import "errors"

var (
	// ErrMethodNotAllowed is returned for any webhook request that is not a POST
	ErrMethodNotAllowed = errors.New("method not allowed")

	// ErrServerMisconfigured is returned when no webhook secret is configured.
	// Verification never passes without a secret.
	ErrServerMisconfigured = errors.New("webhook secret not configured")

	// ErrSignatureInvalid is returned when the notification signature does not match
	ErrSignatureInvalid = errors.New("invalid notification signature")
)
