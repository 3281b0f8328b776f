// Package apperr defines the internal error taxonomy shared by services and
// repositories. Handlers translate kinds into HTTP statuses; user-visible
// text stays generic while the kind and wrapped cause are preserved for logs.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport-level mapping and caller handling.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation: bad input — negative amounts, empty reason, double-open,
	// operation on the wrong lifecycle state. Always recoverable by the caller.
	KindValidation
	// KindNotFound: the record or movement does not exist.
	KindNotFound
	// KindConflict: optimistic-concurrency version mismatch on a ledger write.
	KindConflict
	// KindPersistence: the underlying store call failed. No retry at this layer.
	KindPersistence
	// KindPartialFailure: a multi-step delete completed only partially — the
	// caller must attempt compensating cleanup, not assume nothing happened.
	KindPartialFailure
)

// Error carries a kind, a user-presentable message, and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Msg: msg}
}

func Persistence(msg string, cause error) error {
	return &Error{Kind: KindPersistence, Msg: msg, Err: cause}
}

func PartialFailure(msg string, cause error) error {
	return &Error{Kind: KindPartialFailure, Msg: msg, Err: cause}
}

// KindOf extracts the kind from any error in the chain. Unclassified errors
// report KindUnknown and are treated as internal failures by handlers.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsValidation(err error) bool     { return KindOf(err) == KindValidation }
func IsNotFound(err error) bool       { return KindOf(err) == KindNotFound }
func IsConflict(err error) bool       { return KindOf(err) == KindConflict }
func IsPartialFailure(err error) bool { return KindOf(err) == KindPartialFailure }
