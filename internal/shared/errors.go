package shared

import "errors"

var (
	// ErrNotFound reports a missing row.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials reports a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCSRFTokenMissing reports a state-changing request without a token.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch reports a token that does not match the session.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
