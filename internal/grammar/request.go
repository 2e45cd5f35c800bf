package grammar

import (
	"errors"
	"strconv"

	"github.com/danmuck/p4chord/internal/protocol"
)

// Request builds a chord request from the tokens of a successful parse.
// A mask that does not fit in 64 bits is reported as a field overflow.
func Request(tokens []Token) (protocol.ChordRequest, error) {
	if len(tokens) != 3 ||
		tokens[0].Kind != KindNote ||
		tokens[1].Kind != KindChordType ||
		tokens[2].Kind != KindMask {
		return protocol.ChordRequest{}, ErrMalformedTokens
	}
	mask, err := strconv.ParseUint(tokens[2].Text, 16, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return protocol.ChordRequest{}, &protocol.FieldOverflowError{
				Field: "chosen_notes",
				Text:  tokens[2].Text,
				Bits:  64,
			}
		}
		return protocol.ChordRequest{}, ErrMalformedTokens
	}
	req := protocol.ChordRequest{
		Tonic:       protocol.Note(tokens[0].Text),
		ChordType:   protocol.ChordType(tokens[1].Text),
		ChosenNotes: mask,
	}
	if err := req.Validate(); err != nil {
		return protocol.ChordRequest{}, err
	}
	return req, nil
}
