package lexer_test

import (
	"reflect"
	"strings"
	"testing"
	"testing/quick"

	"wstok/internal/lexer"
	"wstok/internal/testkit"
	"wstok/internal/token"
)

func TestTokenizeSplitsOnWhitespace(t *testing.T) {
	got := lexer.Tokenize("To be or not-to be?")
	wantTexts := []string{"To", "be", "or", "not-to", "be?"}
	wantOffsets := []int{0, 3, 6, 9, 16}
	if !reflect.DeepEqual(got.Texts(), wantTexts) {
		t.Errorf("texts = %q, want %q", got.Texts(), wantTexts)
	}
	if !reflect.DeepEqual(got.Offsets(), wantOffsets) {
		t.Errorf("offsets = %v, want %v", got.Offsets(), wantOffsets)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  token.List
	}{
		{"empty", "", nil},
		{"spaces only", "   ", nil},
		{"mixed whitespace only", " \t\r\n\v\f", nil},
		{"collapse runs", "  a  b ", token.List{{Text: "a", Offset: 2}, {Text: "b", Offset: 5}}},
		{"single token", "word", token.List{{Text: "word", Offset: 0}}},
		{"no trailing whitespace", "a b", token.List{{Text: "a", Offset: 0}, {Text: "b", Offset: 2}}},
		{"tabs and newlines", "a\tb\nc\r\nd", token.List{
			{Text: "a", Offset: 0}, {Text: "b", Offset: 2}, {Text: "c", Offset: 4}, {Text: "d", Offset: 7},
		}},
		{"punctuation is not a separator", "x-y,z? (w)", token.List{{Text: "x-y,z?", Offset: 0}, {Text: "(w)", Offset: 7}}},
		{"unicode spaces", "a\u00a0b\u3000c\u2009d\u0085e", token.List{
			{Text: "a", Offset: 0}, {Text: "b", Offset: 3}, {Text: "c", Offset: 7},
			{Text: "d", Offset: 11}, {Text: "e", Offset: 14},
		}},
		{"multibyte tokens", "привет мир", token.List{{Text: "привет", Offset: 0}, {Text: "мир", Offset: 13}}},
		{"zero width space is not whitespace", "a\u200bb", token.List{{Text: "a\u200bb", Offset: 0}}},
		{"invalid utf8 is a character", "a\xff b", token.List{{Text: "a\xff", Offset: 0}, {Text: "b", Offset: 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lexer.Tokenize(tt.input)
			if !got.Equal(tt.want) {
				t.Fatalf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if err := testkit.CheckTokenInvariants(tt.input, got); err != nil {
				t.Fatalf("invariants: %v", err)
			}
		})
	}
}

func TestTokenizeIsIdempotentOnTexts(t *testing.T) {
	input := "\t To  be\n\nor   not-to be?  "
	first := lexer.Tokenize(input)
	second := lexer.Tokenize(first.Normalized())
	if !reflect.DeepEqual(first.Texts(), second.Texts()) {
		t.Errorf("texts changed after normalization: %q vs %q", first.Texts(), second.Texts())
	}
}

func TestTokenizeProperties(t *testing.T) {
	partition := func(s string) bool {
		return testkit.CheckTokenInvariants(s, lexer.Tokenize(s)) == nil
	}
	if err := quick.Check(partition, &quick.Config{MaxCount: 500}); err != nil {
		t.Errorf("partition property failed: %v", err)
	}

	normalized := func(words []string) bool {
		s := strings.Join(words, " \t\n ")
		first := lexer.Tokenize(s)
		again := lexer.Tokenize(first.Normalized())
		return reflect.DeepEqual(first.Texts(), again.Texts())
	}
	if err := quick.Check(normalized, &quick.Config{MaxCount: 200}); err != nil {
		t.Errorf("normalization property failed: %v", err)
	}
}

func TestTokenizeBytes(t *testing.T) {
	buf := []byte("a b")
	got := lexer.TokenizeBytes(buf)
	buf[0] = 'z'
	if got[0].Text != "a" {
		t.Errorf("token text aliases the input buffer: %q", got[0].Text)
	}
}

func TestTokenizeStrict(t *testing.T) {
	got, err := lexer.TokenizeStrict("To be")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got.Texts(), []string{"To", "be"}) {
		t.Errorf("texts = %q", got.Texts())
	}

	got, err = lexer.TokenizeStrict("ok \xc3\x28 bad")
	if got != nil {
		t.Errorf("expected no tokens on invalid input, got %v", got)
	}
	var invalid *lexer.InvalidUTF8Error
	if !asInvalid(err, &invalid) {
		t.Fatalf("expected *InvalidUTF8Error, got %v", err)
	}
	if invalid.Offset != 3 {
		t.Errorf("offset = %d, want 3", invalid.Offset)
	}

	if _, err := lexer.TokenizeStrict(""); err != nil {
		t.Errorf("empty input must be valid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := map[string]int{
		"plain":          -1,
		"\uFFFD literal": -1,
		"\xff":           0,
		"ab\xe2\x82":     2,
		"ok\x80x":        2,
	}
	for in, want := range tests {
		err := lexer.Validate(in)
		if want < 0 {
			if err != nil {
				t.Errorf("Validate(%q) = %v, want nil", in, err)
			}
			continue
		}
		var invalid *lexer.InvalidUTF8Error
		if !asInvalid(err, &invalid) || invalid.Offset != want {
			t.Errorf("Validate(%q) = %v, want offset %d", in, err, want)
		}
	}
}

func TestToRuneOffsets(t *testing.T) {
	input := "h\u00e9llo  w\u00f6rld x"
	got := lexer.ToRuneOffsets(input, lexer.Tokenize(input))
	want := token.List{{Text: "h\u00e9llo", Offset: 0}, {Text: "w\u00f6rld", Offset: 7}, {Text: "x", Offset: 13}}
	if !got.Equal(want) {
		t.Errorf("ToRuneOffsets = %v, want %v", got, want)
	}
	if lexer.ToRuneOffsets("", nil) != nil {
		t.Error("nil list must stay nil")
	}
}

func TestIsWhitespace(t *testing.T) {
	for _, r := range []rune{' ', '\t', '\n', '\r', '\v', '\f', 0x85, 0xA0, 0x1680, 0x2000, 0x2028, 0x2029, 0x202F, 0x3000} {
		if !lexer.IsWhitespace(r) {
			t.Errorf("IsWhitespace(%U) = false", r)
		}
	}
	for _, r := range []rune{'a', '-', '?', 0, 0x200B, 0xFEFF, 0xFFFD} {
		if lexer.IsWhitespace(r) {
			t.Errorf("IsWhitespace(%U) = true", r)
		}
	}
}

func asInvalid(err error, target **lexer.InvalidUTF8Error) bool {
	e, ok := err.(*lexer.InvalidUTF8Error)
	if ok {
		*target = e
	}
	return ok
}

func BenchmarkTokenize(b *testing.B) {
	input := strings.Repeat("To be or not-to be?\n\t", 1024)
	b.SetBytes(int64(len(input)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = lexer.Tokenize(input)
	}
}

func TestOffsetUnit(t *testing.T) {
	for in, want := range map[string]lexer.OffsetUnit{"": lexer.ByteOffsets, "byte": lexer.ByteOffsets, "RUNE": lexer.RuneOffsets} {
		got, err := lexer.ParseOffsetUnit(in)
		if err != nil || got != want {
			t.Errorf("ParseOffsetUnit(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := lexer.ParseOffsetUnit("word"); err == nil {
		t.Error("expected error for unknown unit")
	}

	src := "hé llo"
	list := lexer.Tokenize(src)
	if got := lexer.ByteOffsets.Convert(src, list).Offsets(); got[1] != 4 {
		t.Errorf("byte offsets = %v", got)
	}
	if got := lexer.RuneOffsets.Convert(src, list).Offsets(); got[1] != 3 {
		t.Errorf("rune offsets = %v", got)
	}
}
