// Package errors defines the sentinel errors shared across the domain
// modules. Use cases wrap these to express outcomes in business terms, and
// the HTTP layer maps them to status codes without inspecting messages.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates the operation clashes with existing data, such as
	// a duplicate unique key.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the request carries no valid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the authenticated principal lacks permission.
	ErrForbidden = errors.New("forbidden")
)

// New returns an error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Wrap adds context to err while keeping the chain intact so callers can
// still match sentinels with Is. A nil err yields nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
