package token

import (
	"fmt"

	"fortio.org/safecast"

	"wstok/internal/source"
)

// Token is a maximal run of non-whitespace characters and its start offset.
type Token struct {
	Text   string
	Offset int
}

// End returns the exclusive end offset of the token in bytes.
func (t Token) End() int {
	return t.Offset + len(t.Text)
}

// Span converts the token into a source span of the given file.
// Offsets must be byte offsets.
func (t Token) Span(file source.FileID) source.Span {
	start, err := safecast.Conv[uint32](t.Offset)
	if err != nil {
		panic(fmt.Errorf("token offset overflow: %w", err))
	}
	end, err := safecast.Conv[uint32](t.End())
	if err != nil {
		panic(fmt.Errorf("token end overflow: %w", err))
	}
	return source.Span{File: file, Start: start, End: end}
}

func (t Token) String() string {
	return fmt.Sprintf("%q@%d", t.Text, t.Offset)
}

// Lexeme: токен вместе с пробельными trivia перед ним.
type Lexeme struct {
	Token
	Leading []Trivia
}
