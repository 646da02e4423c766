package message

import "errors"

// Domain-specific errors for payload classification.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrMalformedPayload is returned when a payload is not well-formed
	// structured data. This is distinct from classification: a malformed
	// payload never reaches the rule chain.
	ErrMalformedPayload = errors.New("message: malformed payload")
)
