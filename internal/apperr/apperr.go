// Package apperr carries the error kinds the rest of the system reports.
// Every error that crosses a service boundary is tagged with a Kind so
// callers can map it to a response without string matching.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindPolicyDenied
	KindDuplicateDelivery
	KindAlreadyDelivered
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not-found"
	case KindUnauthorized:
		return "unauthorized"
	case KindPolicyDenied:
		return "policy-denied"
	case KindDuplicateDelivery:
		return "duplicate-delivery"
	case KindAlreadyDelivered:
		return "already-delivered"
	case KindStorage:
		return "storage"
	}
	return "unknown"
}

type Error struct {
	kind  Kind
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.kind, e.msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Kind() Kind { return e.kind }

func New(kind Kind, format string, v ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, v...)}
}

func Wrap(kind Kind, cause error, format string, v ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, v...), cause: cause}
}

// KindOf extracts the kind from err, or KindUnknown if err was not
// produced by this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}

// Is lets errors.Is match two apperr values by kind alone.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.kind == t.kind
	}
	return false
}
