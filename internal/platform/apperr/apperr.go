// Package apperr defines the error taxonomy shared by services and handlers.
// Every error crossing an HTTP boundary is one of four kinds; the kind decides the
// envelope code and the message decides what the caller sees.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the response envelope.
type Kind int

const (
	// KindStore covers persistence and cache failures; also the fallback for unknown errors.
	KindStore Kind = iota
	KindValidation
	KindNotFound
	KindAuth
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAuth:
		return "auth"
	default:
		return "store"
	}
}

// Error carries a caller-safe message and an optional internal cause.
type Error struct {
	Kind Kind
	// Msg is returned to the caller verbatim.
	Msg string
	// Details holds per-field validation messages; rendered as the envelope msg when set.
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Validation returns a KindValidation error.
func Validation(msg string) *Error { return &Error{Kind: KindValidation, Msg: msg} }

// Invalid returns a KindValidation error carrying field-level details.
func Invalid(details ...string) *Error {
	msg := "validation failed"
	if len(details) == 1 {
		msg = details[0]
	}
	return &Error{Kind: KindValidation, Msg: msg, Details: details}
}

// NotFound returns a KindNotFound error.
func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Msg: msg} }

// Auth returns a KindAuth error.
func Auth(msg string) *Error { return &Error{Kind: KindAuth, Msg: msg} }

// Store wraps cause as a KindStore error with a caller-safe message.
func Store(msg string, cause error) *Error { return &Error{Kind: KindStore, Msg: msg, Err: cause} }

// KindOf returns the kind of err. Errors outside the taxonomy are KindStore.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStore
}

// As returns err as *Error when it is one.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
