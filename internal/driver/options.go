package driver

import "wstok/internal/source"

// Options controls a single tokenization run.
type Options struct {
	MaxDiagnostics int
	// AllowInvalidUTF8 tokenizes ill-formed input instead of rejecting it;
	// each bad sequence becomes a warning.
	AllowInvalidUTF8 bool
	Normalize        source.Normalization
	// KeepTrivia fills TokenizeResult.Lexemes and Trailing.
	KeepTrivia bool
	// Cache, если задан, хранит списки токенов между запусками.
	Cache *DiskCache
}

func (o Options) loadOptions() source.LoadOptions {
	return source.LoadOptions{Normalize: o.Normalize}
}
