// Package apperr defines the closed set of errors the service exposes to clients.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindAuth
	KindMissingCredential
	KindInvalidToken
	KindStaleIdentity
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindMissingCredential:
		return "missing_credential"
	case KindInvalidToken:
		return "invalid_token"
	case KindStaleIdentity:
		return "stale_identity"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Public messages shared by several call sites.
const (
	MsgInternal          = "Something went wrong"
	MsgInvalidCredential = "Invalid credentials"
	MsgTokenNotValid     = "Token is not valid"
	MsgValidationFailed  = "Validation failed"
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the only error type handlers turn into responses.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation returns a 400 error with optional field details.
func Validation(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// Conflict returns a 400 error for uniqueness violations.
func Conflict(message string, err error) *Error {
	return &Error{Kind: KindConflict, Message: message, Err: err}
}

// Auth returns the login failure error. The message never varies.
func Auth(err error) *Error {
	return &Error{Kind: KindAuth, Message: MsgInvalidCredential, Err: err}
}

func MissingCredential() *Error {
	return &Error{Kind: KindMissingCredential, Message: MsgTokenNotValid}
}

func InvalidToken(err error) *Error {
	return &Error{Kind: KindInvalidToken, Message: MsgTokenNotValid, Err: err}
}

func StaleIdentity(err error) *Error {
	return &Error{Kind: KindStaleIdentity, Message: MsgTokenNotValid, Err: err}
}

// NotFound covers both absent and not-owned resources.
func NotFound(message string, err error) *Error {
	return &Error{Kind: KindNotFound, Message: message, Err: err}
}

// Internal wraps an unexpected failure. The cause is kept for logging only.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: MsgInternal, Err: err}
}

// KindOf reports the kind of err. Errors outside the taxonomy are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// From returns err as *Error, wrapping unknown errors as internal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

// HTTPStatus maps a kind to its response status.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation, KindConflict, KindAuth:
		return http.StatusBadRequest
	case KindMissingCredential, KindInvalidToken, KindStaleIdentity:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
