package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"wstok/internal/diag"
	"wstok/internal/lexer"
	"wstok/internal/observ"
	"wstok/internal/source"
	"wstok/internal/token"
	"wstok/internal/trace"
)

// TokenizeResult holds the outcome of tokenizing one input.
type TokenizeResult struct {
	FileSet  *source.FileSet
	File     *source.File
	Tokens   token.List // byte offsets
	Lexemes  []token.Lexeme
	Trailing []token.Trivia
	Bag      *diag.Bag
	Cached   bool
	Timer    *observ.Timer
}

// Tokenize loads path from disk and tokenizes it.
func Tokenize(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	timer := observ.NewTimer()
	fs := source.NewFileSet()

	idx := timer.Begin("load")
	fileID, err := fs.Load(path, opts.loadOptions())
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	timer.EndWith(idx, len(file.Content), 0, "")

	return tokenizeFile(ctx, fs, file, opts, timer), nil
}

// TokenizeText tokenizes an in-memory string registered under name.
// The text is taken as is: no BOM stripping or UTF-16 sniffing.
func TokenizeText(ctx context.Context, name, text string, opts Options) (*TokenizeResult, error) {
	timer := observ.NewTimer()
	fs := source.NewFileSet()

	idx := timer.Begin("load")
	file := fs.Get(fs.AddText(name, text, opts.loadOptions()))
	timer.EndWith(idx, len(file.Content), 0, "")

	return tokenizeFile(ctx, fs, file, opts, timer), nil
}

// TokenizeReader reads r to the end and tokenizes the content.
// Like a file on disk, the stream is decoded first (BOM, UTF-16).
func TokenizeReader(ctx context.Context, name string, r io.Reader, opts Options) (*TokenizeResult, error) {
	timer := observ.NewTimer()
	fs := source.NewFileSet()

	idx := timer.Begin("load")
	fileID, err := fs.LoadReader(name, r, opts.loadOptions())
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	timer.EndWith(idx, len(file.Content), 0, "")

	return tokenizeFile(ctx, fs, file, opts, timer), nil
}

// tokenizeFile runs validate and scan over a loaded file.
// Ошибки кэша не прерывают работу, а становятся предупреждениями.
func tokenizeFile(ctx context.Context, fs *source.FileSet, file *source.File, opts Options, timer *observ.Timer) *TokenizeResult {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "scan", trace.ParentID(ctx))
	defer span.End("")

	res := &TokenizeResult{
		FileSet: fs,
		File:    file,
		Bag:     diag.NewBag(opts.MaxDiagnostics),
		Timer:   timer,
	}
	text := file.Text()

	idx := timer.Begin("validate")
	verr := lexer.Validate(text)
	timer.EndWith(idx, len(text), 0, "")

	if verr != nil && !opts.AllowInvalidUTF8 {
		var inv *lexer.InvalidUTF8Error
		if errors.As(verr, &inv) {
			diag.ReportError(diag.BagReporter{Bag: res.Bag}, diag.LexInvalidUTF8,
				token.Token{Text: text[inv.Offset : inv.Offset+1], Offset: inv.Offset}.Span(file.ID),
				verr.Error())
			span.WithExtra("invalid_at", strconv.Itoa(inv.Offset))
		}
		return res
	}

	// Кэш используем только для корректного UTF-8 без trivia: предупреждения не кэшируются.
	useCache := opts.Cache != nil && !opts.KeepTrivia && verr == nil
	var key Digest
	if useCache {
		key = CacheKey(file.Hash, opts.Normalize)
		var payload DiskPayload
		hit, err := opts.Cache.Get(key, &payload)
		switch {
		case err != nil:
			diag.ReportWarning(diag.BagReporter{Bag: res.Bag}, diag.CacheError, source.Span{File: file.ID}, fmt.Sprintf("cache read failed: %v", err))
		case hit:
			res.Tokens = payload.List()
			res.Cached = true
			trace.Point(tracer, trace.ScopePass, "cache", "hit", span.ID())
			span.WithExtra("tokens", strconv.Itoa(len(res.Tokens)))
			return res
		}
	}

	idx = timer.Begin("scan")
	if opts.KeepTrivia || verr != nil {
		lx := lexer.New(text, lexer.Options{File: file.ID, Reporter: diag.BagReporter{Bag: res.Bag}})
		lexemes := lx.All()
		res.Tokens = lexer.Tokens(lexemes)
		if opts.KeepTrivia {
			res.Lexemes = lexemes
			res.Trailing = lx.Trailing()
		}
	} else {
		res.Tokens = lexer.Tokenize(text)
	}
	timer.EndWith(idx, len(text), len(res.Tokens), "")
	span.WithExtra("tokens", strconv.Itoa(len(res.Tokens)))

	if useCache {
		if err := opts.Cache.Put(key, NewDiskPayload(res.Tokens)); err != nil {
			diag.ReportWarning(diag.BagReporter{Bag: res.Bag}, diag.CacheError, source.Span{File: file.ID}, fmt.Sprintf("cache write failed: %v", err))
		}
	}
	return res
}
