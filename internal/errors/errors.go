package errors

import (
	"errors"
	"fmt"
)

// Common error types for the unique login service
var (
	// Issuance errors
	ErrInvalidSubjectID = errors.New("invalid subject id")
	ErrUnknownSubject   = errors.New("unknown subject")
	ErrIssuanceFailed   = errors.New("issuance failed")

	// Store errors
	ErrDuplicateValue     = errors.New("duplicate token value")
	ErrTokenNotFound      = errors.New("token not found")
	ErrStorageUnavailable = errors.New("storage unavailable")

	// Redemption errors
	ErrInvalidToken         = errors.New("invalid token")
	ErrSubjectMissing       = errors.New("token subject missing")
	ErrAlreadyAuthenticated = errors.New("already authenticated")

	// General errors
	ErrNotFound    = errors.New("not found")
	ErrInternal    = errors.New("internal error")
	ErrUnsupported = errors.New("unsupported operation")
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
