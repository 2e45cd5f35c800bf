package grammar

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/danmuck/p4chord/internal/protocol"
)

// Parser consumes input starting at pos and returns the new position and the
// token list extended with whatever it matched.
type Parser func(input string, pos int, tokens []Token) (int, []Token, error)

var (
	noteSymbols      = symbolsOf(protocol.Notes)
	chordTypeSymbols = symbolsOf(protocol.ChordTypes)
)

func symbolsOf[S ~string](in []S) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}

// Note matches one of the 21 tonic symbols.
func Note(input string, pos int, tokens []Token) (int, []Token, error) {
	return matchSymbol(input, pos, tokens, KindNote, ExpectNote, noteSymbols)
}

// ChordType matches one of the 7 chord codes.
func ChordType(input string, pos int, tokens []Token) (int, []Token, error) {
	return matchSymbol(input, pos, tokens, KindChordType, ExpectChordType, chordTypeSymbols)
}

// Mask matches one or more hex digits, greedily.
func Mask(input string, pos int, tokens []Token) (int, []Token, error) {
	if !inRange(input, pos) {
		return pos, tokens, &ParseError{Expected: ExpectHexDigits, Pos: pos}
	}
	start := skipSpace(input, pos)
	end := start
	for end < len(input) && isHexDigit(input[end]) {
		end++
	}
	if end == start {
		return pos, tokens, &ParseError{Expected: ExpectHexDigits, Pos: pos, Remainder: input[start:]}
	}
	digits := input[start:end]
	value, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		value = math.MaxUint64
	}
	return skipSpace(input, end), appendToken(tokens, Token{Kind: KindMask, Text: digits, Value: value}), nil
}

// End succeeds only when nothing but whitespace remains.
func End(input string, pos int, tokens []Token) (int, []Token, error) {
	if !inRange(input, pos) {
		return pos, tokens, &ParseError{Expected: ExpectEnd, Pos: pos}
	}
	end := skipSpace(input, pos)
	if end != len(input) {
		return pos, tokens, &ParseError{Expected: ExpectEnd, Pos: pos, Remainder: input[end:]}
	}
	return end, tokens, nil
}

// Sequence runs p1 then p2 on p1's result. On failure the original position and
// tokens are returned.
func Sequence(p1, p2 Parser) Parser {
	return func(input string, pos int, tokens []Token) (int, []Token, error) {
		next, acc, err := p1(input, pos, tokens)
		if err != nil {
			return pos, tokens, err
		}
		next, acc, err = p2(input, next, acc)
		if err != nil {
			return pos, tokens, err
		}
		return next, acc, nil
	}
}

// Chord returns the full chord grammar. Lenient grammars ignore input after
// the mask; strict grammars require the line to end there.
func Chord(strict bool) Parser {
	p := Sequence(Note, Sequence(ChordType, Mask))
	if strict {
		p = Sequence(p, End)
	}
	return p
}

// ParseChord parses one operator line into its three tokens.
func ParseChord(line string, strict bool) ([]Token, error) {
	_, tokens, err := Chord(strict)(line, 0, nil)
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func matchSymbol(input string, pos int, tokens []Token, kind Kind, expected Expectation, symbols []string) (int, []Token, error) {
	if !inRange(input, pos) {
		return pos, tokens, &ParseError{Expected: expected, Pos: pos}
	}
	start := skipSpace(input, pos)
	rest := input[start:]
	for _, sym := range symbols {
		if strings.HasPrefix(rest, sym) {
			end := skipSpace(input, start+len(sym))
			return end, appendToken(tokens, Token{Kind: kind, Text: sym}), nil
		}
	}
	return pos, tokens, &ParseError{Expected: expected, Pos: pos, Remainder: rest}
}

func skipSpace(input string, pos int) int {
	for pos < len(input) {
		r, size := utf8.DecodeRuneInString(input[pos:])
		if !unicode.IsSpace(r) {
			break
		}
		pos += size
	}
	return pos
}

func inRange(input string, pos int) bool {
	return pos >= 0 && pos <= len(input)
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
