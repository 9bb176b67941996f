// Package token defines the data model produced by the whitespace tokenizer.
// Invariants:
//   - Token.Text is a non-empty slice of the original input (no copies) and
//     never contains whitespace.
//   - Token.Offset is the byte index of Text in that input, unless a list was
//     explicitly converted to rune offsets.
//   - A List is ordered by Offset; tokens never overlap and everything between
//     them is whitespace.
//   - Trivia carries the whitespace the tokenizer skips, so that
//     leading trivia + tokens + trailing trivia rebuild the input byte for byte.
package token
