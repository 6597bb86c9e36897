package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDate = errors.New("invalid date format")
	ErrInvalidCode = errors.New("invalid currency code format")
)

// RequestError carries the message shown to the client alongside the cause.
type RequestError struct {
	Err     error
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func InvalidDateError(dateStr string) *RequestError {
	return &RequestError{
		Err:     ErrInvalidDate,
		Message: fmt.Sprintf(`Date "%s" must be in YYYY-MM-DD format.`, dateStr),
	}
}

func InvalidCodeError(code string) *RequestError {
	return &RequestError{
		Err:     ErrInvalidCode,
		Message: fmt.Sprintf(`Currency "%s" must be a 3-letter code.`, code),
	}
}
