package coord

import (
	"errors"
	"fmt"
)

// ErrUnrecognizedFormat is matched by every FormatError.
var ErrUnrecognizedFormat = errors.New("unrecognized coordinate format")

// FormatError reports a coordinate string that neither parser accepted.
type FormatError struct {
	Axis  string // "RA" or "Dec"
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unrecognized %s format: %q", e.Axis, e.Value)
}

// Is lets errors.Is(err, ErrUnrecognizedFormat) match.
func (e *FormatError) Is(target error) bool {
	return target == ErrUnrecognizedFormat
}
