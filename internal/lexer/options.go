package lexer

import (
	"wstok/internal/diag"
	"wstok/internal/source"
)

type Options struct {
	// File is stamped on reported spans.
	File source.FileID
	// Reporter может быть nil: тогда некорректные байты молча пропускаем в токены
	Reporter diag.Reporter
}
