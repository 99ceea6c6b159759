// Package apperr holds the error taxonomy shared by the modules and the HTTP layer.
package apperr

import "errors"

// ErrNotFound is returned when an entity lookup misses.
var ErrNotFound = errors.New("not found")

// ErrUnauthorized is returned for failed credential checks.
var ErrUnauthorized = errors.New("invalid credentials")

type validationError struct{ message string }

func (e validationError) Error() string { return e.message }

// Validation reports a rule violation caught before any store call.
func Validation(msg string) error {
	return validationError{message: msg}
}

// IsValidation distinguishes rule violations from store failures.
func IsValidation(err error) bool {
	var v validationError
	return errors.As(err, &v)
}
