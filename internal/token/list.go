package token

import "strings"

// List is an ordered token sequence as returned by the tokenizer.
type List []Token

// Len returns the number of tokens.
func (l List) Len() int { return len(l) }

// Texts returns the token texts in order.
func (l List) Texts() []string {
	out := make([]string, len(l))
	for i, t := range l {
		out[i] = t.Text
	}
	return out
}

// Offsets returns the token offsets in order.
func (l List) Offsets() []int {
	out := make([]int, len(l))
	for i, t := range l {
		out[i] = t.Offset
	}
	return out
}

// Normalized joins the texts with single spaces.
// Tokenizing the result yields the same texts.
func (l List) Normalized() string {
	return strings.Join(l.Texts(), " ")
}

// Equal reports whether both lists hold the same texts at the same offsets.
func (l List) Equal(other List) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if l[i] != other[i] {
			return false
		}
	}
	return true
}

// Segment is one piece of the partition of an input: a token or the
// whitespace between tokens.
type Segment struct {
	Offset int
	Text   string
	Token  bool
}

// Segments partitions input into alternating whitespace and token pieces.
// Empty whitespace gaps are omitted. Joining all segment texts gives input
// back, provided l was produced from input with byte offsets.
func (l List) Segments(input string) []Segment {
	out := make([]Segment, 0, 2*len(l)+1)
	pos := 0
	for _, t := range l {
		if t.Offset > pos {
			out = append(out, Segment{Offset: pos, Text: input[pos:t.Offset]})
		}
		out = append(out, Segment{Offset: t.Offset, Text: t.Text, Token: true})
		pos = t.End()
	}
	if pos < len(input) {
		out = append(out, Segment{Offset: pos, Text: input[pos:]})
	}
	return out
}

// Rebuild concatenates segments back into a string.
func Rebuild(segments []Segment) string {
	var sb strings.Builder
	for _, s := range segments {
		sb.WriteString(s.Text)
	}
	return sb.String()
}
