package lexer

import (
	"fmt"
	"unicode/utf8"

	"wstok/internal/token"
)

// InvalidUTF8Error reports the first ill-formed byte sequence of an input.
type InvalidUTF8Error struct {
	Offset int
}

func (e *InvalidUTF8Error) Error() string {
	return fmt.Sprintf("input is not well-formed UTF-8: invalid byte sequence at offset %d", e.Offset)
}

// Validate returns nil for well-formed UTF-8 and an *InvalidUTF8Error otherwise.
func Validate(src string) error {
	if utf8.ValidString(src) {
		return nil
	}
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])
		if r == utf8.RuneError && size == 1 {
			return &InvalidUTF8Error{Offset: i}
		}
		i += size
	}
	return nil
}

// ToRuneOffsets rewrites the byte offsets of list (produced from src) into
// rune offsets. Ill-formed bytes count as one rune each, as in Tokenize.
func ToRuneOffsets(src string, list token.List) token.List {
	if list == nil {
		return nil
	}
	out := make(token.List, len(list))
	pos, runes := 0, 0
	for i, t := range list {
		runes += utf8.RuneCountInString(src[pos:t.Offset])
		pos = t.Offset
		out[i] = token.Token{Text: t.Text, Offset: runes}
	}
	return out
}
