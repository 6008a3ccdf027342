package auth

import "strings"

// ValidationError carries the user-facing problems with a registration or
// login attempt. Messages render as flash lines; anything else that goes
// wrong is an internal error and is never shown verbatim.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

func newValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}
