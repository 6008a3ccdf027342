package server

import (
	"github.com/jrsteele09/go-lending-server/auth"
	apperrors "github.com/jrsteele09/go-lending-server/internal/errors"
)

// validationMessages extracts the user-facing lines from a validation
// failure. Anything else is an internal error and must not be echoed back.
func validationMessages(err error) ([]string, bool) {
	var vErr *auth.ValidationError
	if apperrors.As(err, &vErr) {
		return vErr.Messages, true
	}
	return nil, false
}
