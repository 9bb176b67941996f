package lexer

import (
	"wstok/internal/token"
)

// Tokenize splits src into maximal runs of non-whitespace characters, each
// paired with its byte offset. Runs of whitespace of any length act as a
// single separator, so no empty tokens are produced; empty or all-whitespace
// input yields an empty list.
//
// Tokenize is total: bytes that are not valid UTF-8 count as ordinary
// non-whitespace characters. Use TokenizeStrict to reject such input.
func Tokenize(src string) token.List {
	var (
		out     token.List
		start   int
		inToken bool
	)
	for i, r := range src {
		if IsWhitespace(r) {
			if inToken {
				out = append(out, token.Token{Text: src[start:i], Offset: start})
				inToken = false
			}
			continue
		}
		if !inToken {
			start = i
			inToken = true
		}
	}
	if inToken {
		out = append(out, token.Token{Text: src[start:], Offset: start})
	}
	return out
}

// TokenizeStrict validates src as UTF-8 before tokenizing it.
// On failure it returns an *InvalidUTF8Error and no tokens.
func TokenizeStrict(src string) (token.List, error) {
	if err := Validate(src); err != nil {
		return nil, err
	}
	return Tokenize(src), nil
}

// TokenizeBytes is Tokenize over a byte slice. Token texts are copies and do
// not alias b.
func TokenizeBytes(b []byte) token.List {
	return Tokenize(string(b))
}
