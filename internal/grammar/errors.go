package grammar

import (
	"errors"
	"fmt"

	"github.com/danmuck/p4chord/internal/protocol"
)

var ErrMalformedTokens = errors.New("grammar: expected note, chord type and mask tokens")

// Expectation names the grammar rule that failed.
type Expectation int

const (
	ExpectNote Expectation = iota + 1
	ExpectChordType
	ExpectHexDigits
	ExpectEnd
)

func (e Expectation) String() string {
	switch e {
	case ExpectNote:
		return "note"
	case ExpectChordType:
		return "chord operator"
	case ExpectHexDigits:
		return "hex digits"
	case ExpectEnd:
		return "end of input"
	default:
		return "unknown"
	}
}

// ParseError reports the first unmatched rule. Pos is the position the failing
// parser was called with; Remainder is the input it could not match.
type ParseError struct {
	Expected  Expectation
	Pos       int
	Remainder string
}

func (e *ParseError) Error() string {
	switch e.Expected {
	case ExpectNote:
		return fmt.Sprintf("grammar: expected a note at %d, got %q", e.Pos, e.Remainder)
	case ExpectChordType:
		return fmt.Sprintf("grammar: expected chord operator %s at %d, got %q", protocol.ChordTypeList(), e.Pos, e.Remainder)
	case ExpectHexDigits:
		return fmt.Sprintf("grammar: expected hex digits at %d, got %q", e.Pos, e.Remainder)
	case ExpectEnd:
		return fmt.Sprintf("grammar: unexpected trailing input at %d: %q", e.Pos, e.Remainder)
	default:
		return fmt.Sprintf("grammar: parse failed at %d", e.Pos)
	}
}
