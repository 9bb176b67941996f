package token_test

import (
	"reflect"
	"testing"

	"wstok/internal/source"
	"wstok/internal/token"
)

func sample() token.List {
	// "  a  bc "
	return token.List{
		{Text: "a", Offset: 2},
		{Text: "bc", Offset: 5},
	}
}

func TestListAccessors(t *testing.T) {
	l := sample()
	if got := l.Texts(); !reflect.DeepEqual(got, []string{"a", "bc"}) {
		t.Errorf("Texts() = %v", got)
	}
	if got := l.Offsets(); !reflect.DeepEqual(got, []int{2, 5}) {
		t.Errorf("Offsets() = %v", got)
	}
	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}
	if got := l.Normalized(); got != "a bc" {
		t.Errorf("Normalized() = %q", got)
	}
}

func TestListEqual(t *testing.T) {
	if !sample().Equal(sample()) {
		t.Error("identical lists must be equal")
	}
	other := sample()
	other[1].Offset = 6
	if sample().Equal(other) {
		t.Error("lists with different offsets must differ")
	}
	if sample().Equal(sample()[:1]) {
		t.Error("lists with different lengths must differ")
	}
	var empty token.List
	if !empty.Equal(token.List{}) {
		t.Error("nil and empty lists must be equal")
	}
}

func TestSegmentsRebuildInput(t *testing.T) {
	input := "  a  bc "
	segs := sample().Segments(input)
	want := []token.Segment{
		{Offset: 0, Text: "  "},
		{Offset: 2, Text: "a", Token: true},
		{Offset: 3, Text: "  "},
		{Offset: 5, Text: "bc", Token: true},
		{Offset: 7, Text: " "},
	}
	if !reflect.DeepEqual(segs, want) {
		t.Fatalf("Segments() = %+v\nwant %+v", segs, want)
	}
	if got := token.Rebuild(segs); got != input {
		t.Errorf("Rebuild() = %q, want %q", got, input)
	}
}

func TestSegmentsEmptyList(t *testing.T) {
	var l token.List
	if segs := l.Segments(""); len(segs) != 0 {
		t.Errorf("expected no segments for empty input, got %+v", segs)
	}
	segs := l.Segments(" \t")
	if len(segs) != 1 || segs[0].Token || segs[0].Text != " \t" {
		t.Errorf("unexpected segments %+v", segs)
	}
}

func TestTokenSpanAndEnd(t *testing.T) {
	tok := token.Token{Text: "not-to", Offset: 9}
	if tok.End() != 15 {
		t.Errorf("End() = %d, want 15", tok.End())
	}
	sp := tok.Span(source.FileID(3))
	if sp.File != 3 || sp.Start != 9 || sp.End != 15 {
		t.Errorf("Span() = %v", sp)
	}
	if s := tok.String(); s != `"not-to"@9` {
		t.Errorf("String() = %s", s)
	}
}

func TestTriviaKinds(t *testing.T) {
	for _, r := range []rune{'\n', '\r', '\v', '\f', 0x85, 0x2028, 0x2029} {
		if !token.IsLineBreak(r) {
			t.Errorf("IsLineBreak(%U) = false", r)
		}
	}
	for _, r := range []rune{' ', '\t', 0xA0, 0x3000} {
		if token.IsLineBreak(r) {
			t.Errorf("IsLineBreak(%U) = true", r)
		}
	}
	if token.TriviaSpace.String() != "Space" || token.TriviaNewline.String() != "Newline" {
		t.Error("unexpected trivia kind names")
	}
	tv := token.Trivia{Kind: token.TriviaSpace, Offset: 4, Text: "  "}
	if tv.End() != 6 {
		t.Errorf("End() = %d", tv.End())
	}
}
