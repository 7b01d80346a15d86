package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the API layer can map it to a status
// code and callers get a specific, actionable reason.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindScope
	KindConflict
)

// Error is a classified domain failure.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Reason: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Reason: fmt.Sprintf(format, args...)}
}

func Scopef(format string, args ...any) error {
	return &Error{Kind: KindScope, Reason: fmt.Sprintf(format, args...)}
}

// Conflictf is a business-rule violation: insufficient stock,
// over-receipt, illegal transition, uncounted items, closed session.
func Conflictf(format string, args ...any) error {
	return &Error{Kind: KindConflict, Reason: fmt.Sprintf(format, args...)}
}

// KindOf extracts the classification; unclassified errors are internal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// Reason returns the human-readable reason for a classified error, or a
// generic message for internal ones (storage details stay in the logs).
func Reason(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Reason
	}
	return "internal error"
}
