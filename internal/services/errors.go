package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Error pairs a sentinel kind with the message shown to clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

func invalidf(format string, args ...any) error {
	return newError(ErrInvalidInput, fmt.Sprintf(format, args...))
}

// PublicMessage returns the client facing text of a service error, or
// fallback when err carries none.
func PublicMessage(err error, fallback string) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}
	return fallback
}

const maxYear = 9999

func validateName(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalidf("%s is required", field)
	}
	return value, nil
}

func validateYear(year int) error {
	if year < 0 || year > maxYear {
		return invalidf("year must be between 0 and %d", maxYear)
	}
	return nil
}
