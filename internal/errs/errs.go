// Package errs defines the error kinds returned by the data-access layer and
// how each kind surfaces to HTTP clients.
package errs

import (
	"errors"
	"net/http"
	"strings"
)

// Kind classifies an Error.
type Kind string

const (
	// KindValidation marks missing or malformed input; the caller's fault.
	KindValidation Kind = "ValidationError"
	// KindNotFound marks a referenced entity that does not exist.
	KindNotFound Kind = "NotFoundError"
	// KindStorage marks a database-level failure.
	KindStorage Kind = "StorageError"
)

// FieldError is a validation problem on one request field.
//
//	{ "field": "quantity", "error": "must be a whole number" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// Error carries a client-safe Message. Err holds the underlying cause and is
// only ever logged.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status maps the kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation, KindNotFound:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Validation builds a ValidationError. When fields are given and message is
// empty, the message is derived from them.
func Validation(message string, fields ...FieldError) *Error {
	if message == "" {
		message = summarize(fields)
	}
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// NotFound builds a NotFoundError.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Storage wraps a driver error behind a client-safe message.
func Storage(message string, err error) *Error {
	return &Error{Kind: KindStorage, Message: message, Err: err}
}

// As extracts the *Error from err's chain. Anything else is reported as a
// StorageError with a generic message so driver text never leaks.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Storage(http.StatusText(http.StatusInternalServerError), err)
}

// KindOf returns the kind of err, or "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return As(err).Kind
}

func summarize(fields []FieldError) string {
	if len(fields) == 0 {
		return "Validation failed"
	}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.Field+" "+f.Error)
	}
	return "Validation failed: " + strings.Join(parts, "; ")
}
