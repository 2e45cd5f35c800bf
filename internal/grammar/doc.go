// Package grammar parses operator chord lines into ordered tokens.
//
// Parsers are plain functions over (input, position, tokens). They never
// backtrack: a failing parser returns the position and token slice it was
// given, together with a *ParseError naming what it expected.
//
// The chord grammar is
//
//	<note> <chord-type> <hex-mask>
//
// with optional whitespace around each token.
package grammar
