package token

// TriviaKind classifies a whitespace run.
type TriviaKind uint8

const (
	// TriviaSpace is a run of horizontal whitespace (space, tab, NBSP, ...).
	TriviaSpace TriviaKind = iota
	// TriviaNewline is a run of line breaks (\n, \r, \v, \f, NEL, LS, PS).
	TriviaNewline
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "Space"
	case TriviaNewline:
		return "Newline"
	default:
		return "Unknown"
	}
}

// Trivia is a run of skipped whitespace.
type Trivia struct {
	Kind   TriviaKind
	Offset int
	Text   string
}

// End returns the exclusive end offset of the trivia.
func (t Trivia) End() int {
	return t.Offset + len(t.Text)
}

// IsLineBreak reports whether r belongs to a TriviaNewline run.
func IsLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}
