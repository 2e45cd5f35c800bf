package grammar

import (
	"errors"
	"strings"
	"testing"

	"github.com/danmuck/p4chord/internal/protocol"
	"github.com/danmuck/p4chord/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChordAcceptsCanonicalLine(t *testing.T) {
	testlog.Start(t)

	tokens, err := ParseChord("Af M_ 1234", false)
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, Token{Kind: KindNote, Text: "Af"}, tokens[0])
	assert.Equal(t, Token{Kind: KindChordType, Text: "M_"}, tokens[1])
	assert.Equal(t, Token{Kind: KindMask, Text: "1234", Value: 0x1234}, tokens[2])
}

func TestParseChordFailures(t *testing.T) {
	testlog.Start(t)

	cases := []struct {
		line     string
		expected Expectation
		message  string
	}{
		{"Zx M_ 1", ExpectNote, "expected a note"},
		{"Af Q_ 1", ExpectChordType, "expected chord operator"},
		{"Af M_ ", ExpectHexDigits, "expected hex digits"},
		{"", ExpectNote, "expected a note"},
		{"af M_ 1", ExpectNote, "expected a note"},
	}
	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			_, err := ParseChord(tc.line, false)
			var perr *ParseError
			require.True(t, errors.As(err, &perr), "expected ParseError, got %v", err)
			assert.Equal(t, tc.expected, perr.Expected)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestChordTypeErrorEnumeratesCodes(t *testing.T) {
	_, _, err := ChordType("Q_", 0, nil)
	require.Error(t, err)
	for _, ct := range protocol.ChordTypes {
		assert.Contains(t, err.Error(), "'"+string(ct)+"'")
	}
}

func TestParseErrorNamesRemainder(t *testing.T) {
	_, err := ParseChord("Af M_ zz", false)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 6, perr.Pos)
	assert.Equal(t, "zz", perr.Remainder)
}

func TestPrimitivesAdvancePastWhitespace(t *testing.T) {
	input := "  Cs \t m7\n  ff0A  trailing"
	pos, tokens, err := Note(input, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, strings.Index(input, "m7"), pos)

	pos, tokens, err = ChordType(input, pos, tokens)
	require.NoError(t, err)
	assert.Equal(t, strings.Index(input, "ff0A"), pos)

	pos, tokens, err = Mask(input, pos, tokens)
	require.NoError(t, err)
	assert.Equal(t, strings.Index(input, "trailing"), pos)
	assert.Equal(t, uint64(0xff0a), tokens[2].Value)
}

func TestPositionMonotonicOnSuccess(t *testing.T) {
	lines := []string{"Af M_ 1234", "Gs a6 0", "Bn  do  FFFF  ", "En di 7"}
	for _, line := range lines {
		pos, _, err := Chord(false)(line, 0, nil)
		require.NoError(t, err, line)
		assert.Greater(t, pos, 0, line)
		assert.LessOrEqual(t, pos, len(line), line)
	}
}

func TestFailureLeavesPositionAndTokensUnchanged(t *testing.T) {
	seed := []Token{{Kind: KindNote, Text: "Af"}}
	input := "Af M_ xyz"

	for _, p := range []Parser{Note, ChordType, Mask, End, Chord(false), Chord(true)} {
		pos, tokens, err := p(input, 3, seed)
		if err == nil {
			continue
		}
		assert.Equal(t, 3, pos)
		assert.Equal(t, seed, tokens)
	}

	pos, tokens, err := Chord(false)(input, 0, nil)
	require.Error(t, err)
	assert.Equal(t, 0, pos)
	assert.Nil(t, tokens)
}

func TestSuccessDoesNotMutateCallerTokens(t *testing.T) {
	seed := make([]Token, 1, 4)
	seed[0] = Token{Kind: KindNote, Text: "Af"}
	_, out, err := ChordType("M_", 0, seed)
	require.NoError(t, err)
	require.Len(t, out, 2)

	_, out2, err := ChordType("m7", 0, seed)
	require.NoError(t, err)
	assert.Equal(t, "M_", out[1].Text)
	assert.Equal(t, "m7", out2[1].Text)
}

func TestSequenceFeedsFirstResultIntoSecond(t *testing.T) {
	var seen int
	p := Sequence(Note, func(input string, pos int, tokens []Token) (int, []Token, error) {
		seen = len(tokens)
		return pos, tokens, nil
	})
	pos, tokens, err := p("Dn rest", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, seen)
	assert.Equal(t, 3, pos)
	assert.Len(t, tokens, 1)
}

func TestLenientGrammarIgnoresTrailingInput(t *testing.T) {
	tokens, err := ParseChord("Af M_ 12 34 garbage", false)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x12), tokens[2].Value)
}

func TestStrictGrammarRejectsTrailingInput(t *testing.T) {
	_, err := ParseChord("Af M_ 12 garbage", true)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, ExpectEnd, perr.Expected)
	assert.Equal(t, "garbage", perr.Remainder)

	_, err = ParseChord("Af M_ 12   ", true)
	assert.NoError(t, err)
}

func TestOutOfRangePositionFails(t *testing.T) {
	_, _, err := Note("Af", 5, nil)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, ExpectNote, perr.Expected)
}

func TestMaskSaturatesBeyond64Bits(t *testing.T) {
	_, tokens, err := Mask("1ffffffffffffffff", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, ^uint64(0), tokens[0].Value)
	assert.Equal(t, "1ffffffffffffffff", tokens[0].Text)
}
