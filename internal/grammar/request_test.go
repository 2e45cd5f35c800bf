package grammar

import (
	"errors"
	"testing"

	"github.com/danmuck/p4chord/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestFromTokens(t *testing.T) {
	tokens, err := ParseChord("Gf m7 00ff", false)
	require.NoError(t, err)

	req, err := Request(tokens)
	require.NoError(t, err)
	assert.Equal(t, protocol.ChordRequest{Tonic: protocol.NoteGf, ChordType: protocol.ChordMinorSeventh, ChosenNotes: 0xff}, req)
}

func TestRequestRejectsMisorderedTokens(t *testing.T) {
	_, err := Request([]Token{{Kind: KindChordType, Text: "M_"}, {Kind: KindNote, Text: "Af"}, {Kind: KindMask, Text: "1"}})
	assert.ErrorIs(t, err, ErrMalformedTokens)

	_, err = Request(nil)
	assert.ErrorIs(t, err, ErrMalformedTokens)
}

func TestRequestReportsMaskWiderThan64Bits(t *testing.T) {
	tokens, err := ParseChord("Af M_ 10000000000000000", false)
	require.NoError(t, err)

	_, err = Request(tokens)
	var overflow *protocol.FieldOverflowError
	require.True(t, errors.As(err, &overflow))
	assert.Equal(t, 64, overflow.Bits)
	assert.Equal(t, "chosen_notes", overflow.Field)
}

func TestRequestRejectsUnknownSymbols(t *testing.T) {
	_, err := Request([]Token{{Kind: KindNote, Text: "Hn"}, {Kind: KindChordType, Text: "M_"}, {Kind: KindMask, Text: "1"}})
	assert.ErrorIs(t, err, protocol.ErrUnknownNote)
}
