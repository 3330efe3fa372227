package wire

import "fmt"

// ErrFieldCodec is the sentinel every field-codec failure wraps, so callers
// can classify with errors.Is(err, wire.ErrFieldCodec) regardless of which
// concrete shape the failure took.
var ErrFieldCodec = fmt.Errorf("field codec")

// InsufficientDataError reports that a decode ran out of bytes before it
// could satisfy a fixed- or declared-length read.
type InsufficientDataError struct {
	Remaining int
	Required  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("field codec: insufficient data: need %d byte(s), have %d", e.Required, e.Remaining)
}

func (e *InsufficientDataError) Unwrap() error { return ErrFieldCodec }

// InvalidDataError reports that decoded or to-be-encoded data violates a
// field's contract: a count that overflows its prefix width, a malformed
// UTF-8 string, or similar.
type InvalidDataError struct {
	Reason string
}

func (e *InvalidDataError) Error() string {
	return fmt.Sprintf("field codec: invalid data: %s", e.Reason)
}

func (e *InvalidDataError) Unwrap() error { return ErrFieldCodec }

func errInsufficient(remaining, required int) error {
	return &InsufficientDataError{Remaining: remaining, Required: required}
}

func errInvalid(reason string) error {
	return &InvalidDataError{Reason: reason}
}
