package expect

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch reports a message whose runtime type does not match
	// the expectation at the current position. The expectation's callback is
	// never invoked and the position is not consumed.
	ErrTypeMismatch = errors.New("message type does not match expectation")

	// ErrSequenceExhausted reports a message delivered after every declared
	// expectation has already been matched.
	ErrSequenceExhausted = errors.New("expectation sequence exhausted")
)

// MismatchError carries the details of a type mismatch. It unwraps to
// [ErrTypeMismatch].
type MismatchError struct {
	Position int    // zero-based sequence position that was expected to match
	Want     string // qualified name of the expected message type
	Got      string // qualified name of the delivered message type
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("dispatch position %d: got %s, want %s: %s", e.Position, e.Got, e.Want, ErrTypeMismatch)
}

func (e *MismatchError) Unwrap() error { return ErrTypeMismatch }

// ExhaustedError reports a dispatch past the end of the sequence. It unwraps
// to [ErrSequenceExhausted].
type ExhaustedError struct {
	Position int    // cursor value, equal to the number of declared expectations
	Got      string // qualified name of the delivered message type
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("dispatch position %d: got %s: %s", e.Position, e.Got, ErrSequenceExhausted)
}

func (e *ExhaustedError) Unwrap() error { return ErrSequenceExhausted }
