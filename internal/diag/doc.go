// Package diag defines the diagnostic model shared by the loader, the lexer
// and the driver.
//
// Package diag does not format anything and performs no IO; rendering lives in
// internal/diagfmt. Producers emit through a Reporter, consumers read a Bag.
//
// Tokenization itself never fails, so the only lexical diagnostic is
// LexInvalidUTF8: an error when the input is rejected before scanning, a
// warning when a lenient scan passes ill-formed bytes through.
package diag
