package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownNote      = errors.New("protocol: unknown note symbol")
	ErrUnknownChordType = errors.New("protocol: unknown chord type")
)

// FieldOverflowError reports a value that does not fit the wire field carrying it.
type FieldOverflowError struct {
	Field string
	Value uint64
	// Text holds the source digits when the value could not be represented at all.
	Text string
	Bits int
}

func (e *FieldOverflowError) Error() string {
	if e.Text != "" {
		return fmt.Sprintf("protocol: %s value 0x%s overflows %d-bit field", e.Field, e.Text, e.Bits)
	}
	return fmt.Sprintf("protocol: %s value %#x overflows %d-bit field", e.Field, e.Value, e.Bits)
}
