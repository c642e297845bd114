// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package account

import "fmt"

// Kind classifies a failed account operation.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindNotFound
	KindExpired
	KindMismatch
	KindStore
	KindMail
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindExpired:
		return "expired"
	case KindMismatch:
		return "mismatch"
	case KindStore:
		return "store"
	case KindMail:
		return "mail"
	default:
		return "unknown"
	}
}

// Error is the failure of a single step of an account flow.
// Code is the message id shown to the caller; Err carries the cause.
type Error struct {
	Kind Kind
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", e.Code, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s (%s)", e.Code, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, code string, err error) *Error {
	return &Error{Kind: kind, Code: code, Err: err}
}

func storeError(op string, err error) *Error {
	return newError(KindStore, CodeInternal, fmt.Errorf("%s: %w", op, err))
}
