package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrFormNotFound       = errors.New("form not found")
	ErrInvalidFormID      = errors.New("invalid form id")
	ErrInvalidAnswer      = errors.New("invalid answer")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInternal           = errors.New("internal server error")
)

// ValidationError is a local, user-facing rejection raised before anything
// is sent over the network.
type ValidationError struct {
	Message string
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string { return e.Message }

// NetworkError wraps a failed call to the backend. Status is the HTTP status
// when the server answered, 0 otherwise.
type NetworkError struct {
	Op     string
	Status int
	Detail string
	Err    error
}

func (e *NetworkError) Error() string {
	msg := e.Op + " failed"
	if e.Detail != "" {
		msg += ": " + e.Detail
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNotFound reports whether err means the form does not exist, whether the
// lookup was local or remote.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrFormNotFound) {
		return true
	}
	var netErr *NetworkError
	return errors.As(err, &netErr) && netErr.Status == http.StatusNotFound
}
