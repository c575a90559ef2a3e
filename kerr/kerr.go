// Package kerr defines the closed set of error kinds raised by every
// go-corekernel package (spec.md §7).
package kerr

import (
	"errors"
	"fmt"
)

// Kind is one of the error kinds from spec.md §7. Kind itself satisfies
// error, so callers can match with errors.Is(err, kerr.Overflow).
type Kind int

const (
	// InvalidInput means a constraint on a user-supplied value failed
	// (nrdigits = 0, divisor = 0, malformed decimal string, invalid
	// block handed to the arena, bad RT-signal index).
	InvalidInput Kind = iota
	// Overflow means a magnitude or exponent would exceed the
	// representable range.
	Overflow
	// OutOfMemory means the memory manager refused an allocation.
	OutOfMemory
	// DeadLk means a checked mutex detected self-deadlock (double lock
	// by the same goroutine).
	DeadLk
	// Perm means a checked mutex detected unlock-by-non-owner or a
	// double unlock.
	Perm
	// Busy means a checked mutex was destroyed while still locked.
	Busy
	// Again means a non-blocking operation had no work available
	// (wait list empty, RT-signal queue empty, pool fully busy).
	Again
	// NotExist means joining a thread that does not exist (already
	// reaped); propagated from the OS.
	NotExist
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid input"
	case Overflow:
		return "overflow"
	case OutOfMemory:
		return "out of memory"
	case DeadLk:
		return "deadlock"
	case Perm:
		return "operation not permitted"
	case Busy:
		return "resource busy"
	case Again:
		return "try again"
	case NotExist:
		return "does not exist"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error implements error, so a bare Kind can be used as a sentinel:
// errors.Is(err, kerr.Overflow) matches both a bare Kind and an *Error
// wrapping it.
func (k Kind) Error() string { return k.String() }

// Error is the concrete error type returned by go-corekernel operations.
// It records which operation failed, the Kind of failure, and (if the
// failure was caused by a lower-level error, e.g. an OS syscall) the
// wrapped Cause.
type Error struct {
	Op    string
	Kind  Kind
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

// Unwrap exposes Kind and Cause (if any) to errors.Is/errors.As.
func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// New builds an *Error for op with the given kind and no wrapped cause.
func New(op string, kind Kind) error {
	return &Error{Op: op, Kind: kind}
}

// Wrap builds an *Error for op with the given kind, wrapping cause.
// If cause is nil, Wrap returns nil.
func Wrap(op string, kind Kind, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Cause: cause}
}

// Is reports whether err is (or wraps) the given Kind.
func Is(err error, kind Kind) bool {
	return errors.Is(err, kind)
}
