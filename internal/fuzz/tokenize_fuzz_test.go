package fuzztests

import (
	"strings"
	"testing"

	"wstok/internal/diag"
	"wstok/internal/lexer"
	"wstok/internal/source"
	"wstok/internal/testkit"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

func FuzzTokenize(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		src := string(clampInput(input))

		list := lexer.Tokenize(src)
		if err := testkit.CheckTokenInvariants(src, list); err != nil {
			t.Fatalf("invariants broken for %q: %v", src, err)
		}

		again := lexer.Tokenize(list.Normalized())
		if !equalTexts(again.Texts(), list.Texts()) {
			t.Fatalf("re-tokenizing %q changed texts: %q vs %q", src, again.Texts(), list.Texts())
		}

		strict, err := lexer.TokenizeStrict(src)
		if err == nil && !strict.Equal(list) {
			t.Fatalf("strict and lenient disagree on valid input %q", src)
		}
		if err != nil && strict != nil {
			t.Fatalf("strict returned tokens alongside error %v", err)
		}
	})
}

func FuzzLexerMatchesTokenize(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.txt", input)
		file := fs.Get(fileID)

		bag := diag.NewBag(64)
		lx := lexer.New(file.Text(), lexer.Options{File: fileID, Reporter: diag.BagReporter{Bag: bag}})
		lexemes := lx.All()
		if got, want := lexer.Tokens(lexemes), lexer.Tokenize(file.Text()); !got.Equal(want) {
			t.Fatalf("lexer %v != tokenize %v", got, want)
		}

		var sb strings.Builder
		for _, lex := range lexemes {
			for _, tv := range lex.Leading {
				sb.WriteString(tv.Text)
			}
			sb.WriteString(lex.Text)
		}
		for _, tv := range lx.Trailing() {
			sb.WriteString(tv.Text)
		}
		if sb.String() != file.Text() {
			t.Fatalf("trivia round-trip lost bytes: %q vs %q", sb.String(), file.Text())
		}
	})
}

func equalTexts(a, b []string) bool {
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
