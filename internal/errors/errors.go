package errors

import (
	"errors"
	"fmt"
)

// Common error types for the lending server
var (
	// Session token errors. Both collapse to "no session" at the request
	// boundary and are only logged; neither is surfaced to the end user.
	ErrInvalidToken  = errors.New("invalid session token")
	ErrTokenExpired  = errors.New("session token expired")
	ErrMissingSecret = errors.New("session secret is required")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")

	// Catalog errors
	ErrBookNotFound         = errors.New("book not found")
	ErrISBNExists           = errors.New("a book with this ISBN already exists")
	ErrAvailabilityConflict = errors.New("book availability changed concurrently")

	// Lending errors
	ErrBookUnavailable = errors.New("book is currently unavailable")
	ErrLoanNotFound    = errors.New("loan not found")
	ErrLoanClosed      = errors.New("loan already returned")
	ErrLoanNotOwned    = errors.New("loan belongs to a different borrower")

	// General errors
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
