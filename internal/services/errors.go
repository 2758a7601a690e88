package services

import (
	"errors"
	"fmt"
)

// Service-level error taxonomy. Handlers map each case to a distinct HTTP
// response; storage failures are wrapped with %w and fall through to 500.
var (
	ErrUnauthorized      = errors.New("not authorized")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotFound          = errors.New("not found")
)

// ValidationError is a field-addressed input failure so forms can render
// the message inline next to the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// BanError is returned by login and refresh for banned accounts. It
// carries the stored reason for the banned notice page.
type BanError struct {
	Reason string
}

func (e *BanError) Error() string {
	return "account is banned"
}
