package lexer

import (
	"wstok/internal/diag"
	"wstok/internal/token"
)

// Lexer is the streaming form of Tokenize. Besides the tokens it keeps the
// whitespace it skips as trivia, which lets callers render or rebuild the
// input exactly.
type Lexer struct {
	cursor   Cursor
	opts     Options
	look     *token.Lexeme // 1 элементный буфер для токена
	lookOK   bool
	trailing []token.Trivia
	done     bool
}

func New(src string, opts Options) *Lexer {
	return &Lexer{
		cursor: NewCursor(src, opts.File),
		opts:   opts,
	}
}

// Next возвращает следующий токен с уже собранным Leading.
// После конца входа всегда возвращает false; хвостовые пробелы доступны через Trailing.
func (lx *Lexer) Next() (token.Lexeme, bool) {
	if lx.look != nil {
		lex, ok := *lx.look, lx.lookOK
		lx.look = nil
		return lex, ok
	}
	if lx.done {
		return token.Lexeme{}, false
	}

	leading := lx.collectTrivia()
	if lx.cursor.EOF() {
		lx.trailing = leading
		lx.done = true
		return token.Lexeme{}, false
	}

	tok := lx.scanWord()
	return token.Lexeme{Token: tok, Leading: leading}, true
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() (token.Lexeme, bool) {
	lex, ok := lx.Next()
	lx.look = &lex
	lx.lookOK = ok
	return lex, ok
}

// Trailing returns the whitespace after the last token. It is filled once
// Next has reported the end of input.
func (lx *Lexer) Trailing() []token.Trivia {
	return lx.trailing
}

// All drains the lexer.
func (lx *Lexer) All() []token.Lexeme {
	var out []token.Lexeme
	for {
		lex, ok := lx.Next()
		if !ok {
			return out
		}
		out = append(out, lex)
	}
}

// Tokens strips trivia from lexemes.
func Tokens(lexemes []token.Lexeme) token.List {
	if len(lexemes) == 0 {
		return nil
	}
	out := make(token.List, len(lexemes))
	for i, lex := range lexemes {
		out[i] = lex.Token
	}
	return out
}

func (lx *Lexer) scanWord() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		r, _ := lx.cursor.Peek()
		if IsWhitespace(r) {
			break
		}
		if lx.opts.Reporter != nil && lx.cursor.Invalid() {
			m := lx.cursor.Mark()
			lx.cursor.Bump()
			diag.ReportWarning(lx.opts.Reporter, diag.LexInvalidUTF8, lx.cursor.SpanFrom(m), "invalid UTF-8 byte kept inside token")
			continue
		}
		lx.cursor.Bump()
	}
	return token.Token{Text: lx.cursor.Slice(start), Offset: int(start)}
}

// collectTrivia собирает подряд идущие пробельные символы.
// - горизонтальные пробелы коалесцируются в один TriviaSpace
// - переводы строк коалесцируются в один TriviaNewline
func (lx *Lexer) collectTrivia() []token.Trivia {
	var out []token.Trivia
	for !lx.cursor.EOF() {
		r, _ := lx.cursor.Peek()
		if !IsWhitespace(r) {
			break
		}
		kind := triviaKind(r)
		start := lx.cursor.Mark()
		for !lx.cursor.EOF() {
			r2, _ := lx.cursor.Peek()
			if !IsWhitespace(r2) || triviaKind(r2) != kind {
				break
			}
			lx.cursor.Bump()
		}
		out = append(out, token.Trivia{
			Kind:   kind,
			Offset: int(start),
			Text:   lx.cursor.Slice(start),
		})
	}
	return out
}

func triviaKind(r rune) token.TriviaKind {
	if token.IsLineBreak(r) {
		return token.TriviaNewline
	}
	return token.TriviaSpace
}
