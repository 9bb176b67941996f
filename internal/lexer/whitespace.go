package lexer

import (
	"unicode"
	"unicode/utf8"
)

// IsWhitespace is the separator predicate of the tokenizer: a pure
// per-rune test with no lookahead, equal to unicode.IsSpace.
func IsWhitespace(r rune) bool {
	if r < utf8.RuneSelf { // fast-path ASCII
		switch r {
		case ' ', '\t', '\n', '\v', '\f', '\r':
			return true
		}
		return false
	}
	return unicode.IsSpace(r)
}
