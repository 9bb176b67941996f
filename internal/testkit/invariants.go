package testkit

import (
	"fmt"

	"wstok/internal/lexer"
	"wstok/internal/token"
)

// CheckTokenInvariants verifies that list is a valid tokenization of input
// (byte offsets):
// 1) every token is non-empty, lies inside input and matches input at its offset
// 2) tokens contain no whitespace
// 3) offsets strictly ascend and tokens neither overlap nor touch
// 4) everything outside tokens is whitespace, so the partition rebuilds input
func CheckTokenInvariants(input string, list token.List) error {
	prevEnd := 0
	for i, tok := range list {
		if tok.Text == "" {
			return fmt.Errorf("token #%d at %d is empty", i, tok.Offset)
		}
		if tok.Offset < prevEnd {
			return fmt.Errorf("token #%d at %d overlaps or precedes previous token ending at %d", i, tok.Offset, prevEnd)
		}
		if i > 0 && tok.Offset == prevEnd {
			return fmt.Errorf("token #%d at %d touches previous token: runs are not maximal", i, tok.Offset)
		}
		if tok.End() > len(input) {
			return fmt.Errorf("token #%d ends at %d beyond input length %d", i, tok.End(), len(input))
		}
		if got := input[tok.Offset:tok.End()]; got != tok.Text {
			return fmt.Errorf("token #%d text %q differs from input %q at %d", i, tok.Text, got, tok.Offset)
		}
		for j, r := range tok.Text {
			if lexer.IsWhitespace(r) {
				return fmt.Errorf("token #%d %q contains whitespace %U at %d", i, tok.Text, r, tok.Offset+j)
			}
		}
		if err := checkGap(input, prevEnd, tok.Offset); err != nil {
			return err
		}
		prevEnd = tok.End()
	}
	if err := checkGap(input, prevEnd, len(input)); err != nil {
		return err
	}
	if rebuilt := token.Rebuild(list.Segments(input)); rebuilt != input {
		return fmt.Errorf("partition rebuilds %q, want %q", rebuilt, input)
	}
	return nil
}

func checkGap(input string, from, to int) error {
	for j, r := range input[from:to] {
		if !lexer.IsWhitespace(r) {
			return fmt.Errorf("non-whitespace %q at %d is not covered by any token", r, from+j)
		}
	}
	return nil
}
