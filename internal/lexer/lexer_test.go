package lexer_test

import (
	"strings"
	"testing"

	"wstok/internal/diag"
	"wstok/internal/lexer"
	"wstok/internal/source"
	"wstok/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	})
}

func TestLexerMatchesTokenize(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"To be or not-to be?",
		"  a  b ",
		"\n\nline one\r\nline\ttwo\n",
		"a b c",
	}
	for _, in := range inputs {
		lx := lexer.New(in, lexer.Options{})
		got := lexer.Tokens(lx.All())
		if want := lexer.Tokenize(in); !got.Equal(want) {
			t.Errorf("lexer(%q) = %v, Tokenize = %v", in, got, want)
		}
	}
}

func TestLexerTrivia(t *testing.T) {
	in := " \t\n\n a \r\n"
	lx := lexer.New(in, lexer.Options{})

	lex, ok := lx.Next()
	if !ok {
		t.Fatal("expected a token")
	}
	if lex.Text != "a" || lex.Offset != 5 {
		t.Fatalf("token = %v", lex.Token)
	}
	wantLeading := []token.Trivia{
		{Kind: token.TriviaSpace, Offset: 0, Text: " \t"},
		{Kind: token.TriviaNewline, Offset: 2, Text: "\n\n"},
		{Kind: token.TriviaSpace, Offset: 4, Text: " "},
	}
	if !equalTrivia(lex.Leading, wantLeading) {
		t.Errorf("leading = %+v, want %+v", lex.Leading, wantLeading)
	}

	if _, ok := lx.Next(); ok {
		t.Fatal("expected end of input")
	}
	wantTrailing := []token.Trivia{
		{Kind: token.TriviaSpace, Offset: 6, Text: " "},
		{Kind: token.TriviaNewline, Offset: 7, Text: "\r\n"},
	}
	if !equalTrivia(lx.Trailing(), wantTrailing) {
		t.Errorf("trailing = %+v, want %+v", lx.Trailing(), wantTrailing)
	}

	// после конца всегда false
	if _, ok := lx.Next(); ok {
		t.Error("Next after end must keep returning false")
	}
}

func TestLexerRebuildsInput(t *testing.T) {
	in := "\t To  be\n\nor   not-to be?  "
	lx := lexer.New(in, lexer.Options{})
	var sb strings.Builder
	for _, lex := range lx.All() {
		for _, tv := range lex.Leading {
			sb.WriteString(tv.Text)
		}
		sb.WriteString(lex.Text)
	}
	for _, tv := range lx.Trailing() {
		sb.WriteString(tv.Text)
	}
	if sb.String() != in {
		t.Errorf("rebuilt %q, want %q", sb.String(), in)
	}
}

func TestLexerPeek(t *testing.T) {
	lx := lexer.New("x y", lexer.Options{})
	p, ok := lx.Peek()
	if !ok || p.Text != "x" {
		t.Fatalf("Peek = %v, %v", p, ok)
	}
	n, ok := lx.Next()
	if !ok || n.Text != "x" || n.Offset != 0 {
		t.Fatalf("Next after Peek = %v, %v", n, ok)
	}
	n, _ = lx.Next()
	if n.Text != "y" || n.Offset != 2 {
		t.Fatalf("second token = %v", n)
	}
	if _, ok := lx.Peek(); ok {
		t.Fatal("Peek at end must return false")
	}
	if _, ok := lx.Next(); ok {
		t.Fatal("Next at end must return false")
	}
}

func TestLexerReportsInvalidUTF8(t *testing.T) {
	rep := &testReporter{}
	lx := lexer.New("ok a\xffb\xfe", lexer.Options{File: 4, Reporter: rep})
	got := lexer.Tokens(lx.All())
	if len(got) != 2 || got[1].Text != "a\xffb\xfe" {
		t.Fatalf("tokens = %v", got)
	}
	if len(rep.diagnostics) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(rep.diagnostics))
	}
	d := rep.diagnostics[0]
	if d.Code != diag.LexInvalidUTF8 || d.Severity != diag.SevWarning {
		t.Errorf("unexpected diagnostic %+v", d)
	}
	if d.Primary != (source.Span{File: 4, Start: 4, End: 5}) {
		t.Errorf("span = %v", d.Primary)
	}
	if rep.diagnostics[1].Primary.Start != 6 {
		t.Errorf("second span = %v", rep.diagnostics[1].Primary)
	}
}

func equalTrivia(a, b []token.Trivia) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
