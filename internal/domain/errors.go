package domain

import (
	"errors"
	"net/http"
)

// ErrNotFound is returned by the upstream wrappers when the upstream API
// reports that the requested resource does not exist. Handlers decide whether
// to surface it as a 404.
var ErrNotFound = errors.New("not found")

// Kind classifies an Error for HTTP mapping.
type Kind int

const (
	KindService Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "service"
	}
}

// Error is the tagged error carried from validators and wrappers to the
// response boundary. Message is always safe to show in development mode;
// Status is the HTTP status the error maps to.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports a client input contract violation (400).
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Status: http.StatusBadRequest}
}

// NotFound reports a confirmed-absent resource (404).
func NotFound(msg string) *Error {
	if msg == "" {
		msg = "Resource not found"
	}
	return &Error{Kind: KindNotFound, Message: msg, Status: http.StatusNotFound, Err: ErrNotFound}
}

// Unauthorized reports a caller without rights (401).
func Unauthorized(msg string) *Error {
	if msg == "" {
		msg = "Unauthorized"
	}
	return &Error{Kind: KindUnauthorized, Message: msg, Status: http.StatusUnauthorized}
}

// Service reports an upstream or transport failure. A status outside the
// 4xx/5xx range is replaced with 500.
func Service(msg string, status int, err error) *Error {
	if status < 400 || status > 599 {
		status = http.StatusInternalServerError
	}
	return &Error{Kind: KindService, Message: msg, Status: status, Err: err}
}

// AsError returns the *Error in err's chain, or wraps err as a 500 service
// error when it is unclassified. A nil err yields nil.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Service(err.Error(), http.StatusInternalServerError, err)
}

// KindOf returns the kind of err, treating unclassified errors as service
// errors.
func KindOf(err error) Kind {
	return AsError(err).Kind
}

// StatusOf returns the HTTP status err maps to.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return AsError(err).Status
}
