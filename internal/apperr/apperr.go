// Package apperr carries the error taxonomy shared by every layer of the
// service. Handlers map kinds to HTTP statuses; apps and repositories
// attach a kind where they can classify the failure and let wrapped causes
// pass through otherwise.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the caller.
type Kind string

const (
	// KindValidation - malformed or missing input; not retryable without
	// changing the input.
	KindValidation Kind = "VALIDATION"
	// KindAuthorization - caller lacks rights; not retryable.
	KindAuthorization Kind = "AUTHORIZATION"
	// KindConflict - state already changed (duplicate request, already
	// resolved, thread already exists). Often informational rather than a
	// failure from the user's perspective.
	KindConflict Kind = "CONFLICT"
	// KindTransient - network or store unavailable; safe to retry with
	// backoff.
	KindTransient Kind = "TRANSIENT"
	// KindDomain - business-rule violation such as a self-request.
	KindDomain Kind = "DOMAIN"
)

// Error is a kinded error. Msg is safe to show to the user; Err holds the
// underlying cause, if any.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns a kinded error with no underlying cause.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap attaches a kind and message to an underlying cause.
func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func Validation(msg string) error    { return New(KindValidation, msg) }
func Authorization(msg string) error { return New(KindAuthorization, msg) }
func Conflict(msg string) error      { return New(KindConflict, msg) }
func Domain(msg string) error        { return New(KindDomain, msg) }

// Transient wraps a store or network failure that is safe to retry.
func Transient(msg string, err error) error {
	return Wrap(KindTransient, msg, err)
}

// KindOf returns the kind of err, or "" if err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Message returns the user-safe message of err, or fallback if err
// carries no kinded message.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return fallback
}
