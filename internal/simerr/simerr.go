// Package simerr defines the simulation core's error taxonomy (spec.md §7).
// The core never panics across a system boundary and never retries; it
// surfaces failures as explicit, typed values the step driver records on
// the world and the caller decides how to handle.
package simerr

import "github.com/pkg/errors"

// Kind classifies a core error into one of spec.md §7's non-transient
// categories. Transient glitches (missing tilemap at init, empty POI
// candidate set) are handled by falling back deterministically and are not
// represented here — by definition they never become an error value.
type Kind int

const (
	// InvariantViolation is a programmer error: a missing component, an
	// out-of-range index, an unknown enemy/node id. Systems must fail fast
	// rather than silently skip the offending entity.
	InvariantViolation Kind = iota
	// ContentNotImplemented marks content (e.g. a skill node) that exists
	// in data but has no behavior yet; callers must treat it as
	// unavailable, never crash.
	ContentNotImplemented
)

// Error wraps a Kind with context via github.com/pkg/errors, preserving a
// stack trace for the invariant-violation case where one is useful.
type Error struct {
	Kind Kind
	err  error
}

func (e *Error) Error() string { return e.err.Error() }
func (e *Error) Unwrap() error { return e.err }

// Invariant builds an InvariantViolation error with a wrapped stack trace.
func Invariant(format string, args ...interface{}) *Error {
	return &Error{Kind: InvariantViolation, err: errors.Errorf(format, args...)}
}

// NotImplemented builds a ContentNotImplemented error.
func NotImplemented(format string, args ...interface{}) *Error {
	return &Error{Kind: ContentNotImplemented, err: errors.Errorf(format, args...)}
}

// IsInvariant reports whether err is (or wraps) an InvariantViolation.
func IsInvariant(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == InvariantViolation
	}
	return false
}
