package apperror

import (
	"errors"
	"fmt"
)

// Kind groups domain failures so the HTTP layer can map them to a
// response status without inspecting individual sentinel errors.
type Kind int

const (
	Validation Kind = iota + 1
	NotFound
	Conflict
	External
	UnknownStatus
	Internal
)

type Error struct {
	kind Kind
	err  error
}

func (e *Error) Error() string { return e.err.Error() }

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Kind() Kind { return e.kind }

// New creates a sentinel error carrying a kind. Intended for
// package-level `var Err... = apperror.New(...)` declarations.
func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, err: errors.New(msg)}
}

// Wrap attaches a kind to an existing error. The wrapped error stays
// reachable through errors.Is / errors.As.
func Wrap(kind Kind, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, err: err}
}

// Newf is New with formatting.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, err: fmt.Errorf(format, args...)}
}

// KindOf reports the kind of err, walking the wrap chain.
// Unclassified errors are Internal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.kind
	}
	return Internal
}
