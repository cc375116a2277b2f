package domain

import (
	"errors"
	"fmt"
)

// ─── Error Taxonomy ─────────────────────────────────────────────────────────
// Domain errors are pure, with no infrastructure dependency. The API layer maps
// each kind to an HTTP status; the store layer translates UNIQUE violations
// into KindConflict before they escape.

// Kind classifies a domain error.
type Kind int

const (
	KindValidation Kind = iota + 1 // bad input shape or range
	KindNotFound                   // referenced entity absent
	KindConflict                   // unique constraint or blocked delete
	KindForbidden                  // role check failed
	KindInternal                   // unexpected storage failure
)

// Error is a classified domain error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validationf builds a KindValidation error.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a KindNotFound error.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflictf builds a KindConflict error.
func Conflictf(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Forbiddenf builds a KindForbidden error.
func Forbiddenf(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected failure.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// KindOf extracts the kind from an error chain. Unclassified errors are
// reported as KindInternal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
