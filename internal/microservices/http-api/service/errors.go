package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrQuoteNotFound      = errors.New("Quote not found")
	ErrNoQuotes           = errors.New("No quotes found in the database.")
	ErrAuthRequired       = errors.New("Authentication required.")
	ErrEmailInUse         = errors.New("User with this email already exists")
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")

	// ErrValidation is wrapped by every input validation failure; the message
	// after the colon is safe to show to the caller.
	ErrValidation = errors.New("validation error")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// ValidationMessage returns the caller-facing part of a validation error.
func ValidationMessage(err error) string {
	msg, _ := strings.CutPrefix(err.Error(), ErrValidation.Error()+": ")
	return msg
}
