package grammar

// Kind tags a parsed token.
type Kind int

const (
	KindNote Kind = iota + 1
	KindChordType
	KindMask
)

func (k Kind) String() string {
	switch k {
	case KindNote:
		return "note"
	case KindChordType:
		return "chordType"
	case KindMask:
		return "mask"
	default:
		return "unknown"
	}
}

// Token is one parsed grammar element.
//
// For masks Value holds the base-16 value of Text; it saturates at
// math.MaxUint64 when the digits do not fit in 64 bits.
type Token struct {
	Kind  Kind
	Text  string
	Value uint64
}

func appendToken(tokens []Token, tok Token) []Token {
	out := make([]Token, len(tokens), len(tokens)+1)
	copy(out, tokens)
	return append(out, tok)
}
