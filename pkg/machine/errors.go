package machine

import (
	"errors"
	"fmt"
)

// Validation error kinds. All failures are detected eagerly, before
// any state mutation becomes visible, and are reported as wrapped
// sentinel errors so callers can match them with errors.Is.
var (
	// ErrUnsortedEventStream reports an input sequence whose ticks are
	// not in ascending order. Streams are never silently re-sorted;
	// authoring order is meaningful evidence of intent.
	ErrUnsortedEventStream = errors.New("unsorted event stream")

	// ErrConflictingReconciliation reports more than one performance
	// drop targeting the same tick and channel, or a baked drop that
	// claims a program drop which does not exist.
	ErrConflictingReconciliation = errors.New("conflicting reconciliation")

	// ErrOutOfRangeValue reports a rejected field value: bpm <= 0,
	// vibrato speed outside [0,1], a negative tick, or an undefined
	// channel, string, or slot.
	ErrOutOfRangeValue = errors.New("out of range value")

	// ErrTickOutOfBounds reports a query for a negative target tick or
	// an inverted tick range.
	ErrTickOutOfBounds = errors.New("tick out of bounds")
)

func outOfRangef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrOutOfRangeValue, fmt.Sprintf(format, args...))
}

func unsortedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnsortedEventStream, fmt.Sprintf(format, args...))
}

func conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflictingReconciliation, fmt.Sprintf(format, args...))
}

func tickBoundsf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrTickOutOfBounds, fmt.Sprintf(format, args...))
}
