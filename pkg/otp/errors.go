package otp

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned for unknown identifiers, wrong buffer
	// sizes and values that cannot be encoded in a fuse field.
	ErrInvalidArgument = errors.New("otp: invalid argument")

	// ErrIncompatiblePlatform is returned by Open when the running SoC is not
	// the one the fuse map was written for.
	ErrIncompatiblePlatform = errors.New("otp: incompatible platform")

	// ErrConflict is returned when a write would have to change fuses that
	// are already programmed with a different value.
	ErrConflict = errors.New("otp: fuses already programmed with a different value")

	// ErrUnexpectedState is returned when a decoded lock state is impossible
	// for the width of its field.
	ErrUnexpectedState = errors.New("otp: unexpected lock state")

	// ErrIO matches every *IOError with errors.Is.
	ErrIO = errors.New("otp: I/O error")
)

// IOError records a failed device operation on a fuse word.
type IOError struct {
	Op   string // "open", "read" or "write"
	Word WordID // meaningless for "open"
	Err  error
}

func (e *IOError) Error() string {
	if e.Op == "open" {
		return fmt.Sprintf("otp: open: %v", e.Err)
	}
	return fmt.Sprintf("otp: %s %s: %v", e.Op, e.Word, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Is makes every IOError match ErrIO.
func (e *IOError) Is(target error) bool { return target == ErrIO }
