package domain

import (
	"errors"
	"strings"
)

// ErrorKind is the machine-readable classification carried by every failure
// the connect flow can produce. Handlers translate kinds to HTTP statuses.
type ErrorKind string

const (
	KindInvalidIdentity   ErrorKind = "invalid_identity"
	KindPrincipalNotFound ErrorKind = "principal_not_found"
	KindValidation        ErrorKind = "validation_error"
	KindConfiguration     ErrorKind = "configuration_error"
	KindBindingConflict   ErrorKind = "binding_conflict"
	KindBindingNotFound   ErrorKind = "binding_not_found"
	KindPersistence       ErrorKind = "persistence_error"
)

// Error is the taxonomy member surfaced to callers. Missing is populated only
// for configuration errors, which must enumerate every absent parameter.
type Error struct {
	Kind    ErrorKind
	Message string
	Missing []string
	cause   error
}

func (e *Error) Error() string {
	if len(e.Missing) > 0 {
		return e.Message + ": " + strings.Join(e.Missing, ", ")
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// NewError creates a taxonomy error with no underlying cause.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError creates a taxonomy error wrapping an underlying cause.
func WrapError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// NewConfigurationError reports every missing install parameter at once so
// operators can fix configuration in a single pass.
func NewConfigurationError(missing []string) *Error {
	return &Error{
		Kind:    KindConfiguration,
		Message: "missing required configuration",
		Missing: missing,
	}
}

// KindOf extracts the taxonomy kind from an error chain. It returns the empty
// string when the error carries no kind.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
