package diagfmt

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-runewidth"
	"github.com/vmihailenco/msgpack/v5"

	"wstok/internal/lexer"
	"wstok/internal/source"
	"wstok/internal/token"
)

// Format selects how token lists are rendered.
type Format uint8

const (
	FormatPretty Format = iota
	FormatJSON
	FormatNDJSON
	FormatYAML
	FormatMsgpack
	// FormatWords prints only token texts, one per line.
	FormatWords
)

var formatNames = [...]string{"pretty", "json", "ndjson", "yaml", "msgpack", "words"}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// ParseFormat converts a --format value into a Format.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "pretty", "text":
		return FormatPretty, nil
	case "jsonl":
		return FormatNDJSON, nil
	case "yml":
		return FormatYAML, nil
	case "msgpack", "mp":
		return FormatMsgpack, nil
	}
	for i, name := range formatNames {
		if name == s {
			return Format(i), nil
		}
	}
	return FormatPretty, fmt.Errorf("unknown format %q (expected %s)", s, strings.Join(formatNames[:], "|"))
}

// TokenSet is the tokenization of one file, ready for rendering.
// Tokens always carry byte offsets; Unit decides what is printed.
type TokenSet struct {
	File    *source.File
	Tokens  token.List
	Lexemes []token.Lexeme // опционально, даёт leading trivia
	Unit    lexer.OffsetUnit
}

// TokenOutput is one rendered token.
type TokenOutput struct {
	Text    string   `json:"text" yaml:"text" msgpack:"text"`
	Offset  int      `json:"offset" yaml:"offset" msgpack:"offset"`
	Leading []string `json:"leading,omitempty" yaml:"leading,omitempty" msgpack:"leading,omitempty"`
}

// FileTokensOutput groups the tokens of one file in multi-file output.
type FileTokensOutput struct {
	Path    string        `json:"path" yaml:"path" msgpack:"path"`
	Offsets string        `json:"offsets" yaml:"offsets" msgpack:"offsets"`
	Count   int           `json:"count" yaml:"count" msgpack:"count"`
	Tokens  []TokenOutput `json:"tokens" yaml:"tokens" msgpack:"tokens"`
}

func (s TokenSet) text() string {
	if s.File == nil {
		return ""
	}
	return s.File.Text()
}

func (s TokenSet) path() string {
	if s.File == nil {
		return ""
	}
	return s.File.Path
}

// BuildTokenOutput converts the set into output records with offsets in
// s.Unit. The result is never nil.
func BuildTokenOutput(s TokenSet) []TokenOutput {
	list := s.Unit.Convert(s.text(), s.Tokens)
	out := make([]TokenOutput, len(list))
	for i, tok := range list {
		out[i] = TokenOutput{Text: tok.Text, Offset: tok.Offset}
		if i < len(s.Lexemes) && len(s.Lexemes[i].Leading) > 0 {
			out[i].Leading = triviaKinds(s.Lexemes[i].Leading)
		}
	}
	return out
}

func buildFileOutput(s TokenSet) FileTokensOutput {
	toks := BuildTokenOutput(s)
	return FileTokensOutput{Path: s.path(), Offsets: s.Unit.String(), Count: len(toks), Tokens: toks}
}

func triviaKinds(trivia []token.Trivia) []string {
	out := make([]string, len(trivia))
	for i, tv := range trivia {
		out[i] = tv.Kind.String()
	}
	return out
}

// FormatTokens renders the tokens of a single input.
func FormatTokens(w io.Writer, format Format, set TokenSet) error {
	switch format {
	case FormatPretty:
		return FormatTokensPretty(w, set)
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(BuildTokenOutput(set))
	case FormatNDJSON:
		return writeNDJSON(w, "", BuildTokenOutput(set))
	case FormatYAML:
		return writeYAML(w, BuildTokenOutput(set))
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(BuildTokenOutput(set))
	case FormatWords:
		return writeWords(w, set.Tokens)
	default:
		return fmt.Errorf("unsupported format %v", format)
	}
}

// FormatTokenSets renders several inputs, e.g. a directory run.
// Structured formats wrap each file into a FileTokensOutput.
func FormatTokenSets(w io.Writer, format Format, sets []TokenSet) error {
	switch format {
	case FormatPretty:
		for i, set := range sets {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "== %s (%d tokens)\n", set.path(), len(set.Tokens))
			if err := FormatTokensPretty(w, set); err != nil {
				return err
			}
		}
		return nil
	case FormatNDJSON:
		for _, set := range sets {
			if err := writeNDJSON(w, set.path(), BuildTokenOutput(set)); err != nil {
				return err
			}
		}
		return nil
	case FormatWords:
		for _, set := range sets {
			if err := writeWords(w, set.Tokens); err != nil {
				return err
			}
		}
		return nil
	}

	files := make([]FileTokensOutput, len(sets))
	for i, set := range sets {
		files[i] = buildFileOutput(set)
	}
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(files)
	case FormatYAML:
		return writeYAML(w, files)
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(files)
	default:
		return fmt.Errorf("unsupported format %v", format)
	}
}

// FormatTokensPretty выводит токены в человекочитаемом формате:
// индекс, текст в кавычках, смещение, line:col и leading trivia.
func FormatTokensPretty(w io.Writer, set TokenSet) error {
	toks := BuildTokenOutput(set)
	width := 0
	quoted := make([]string, len(toks))
	for i, tok := range toks {
		quoted[i] = fmt.Sprintf("%q", tok.Text)
		width = max(width, runewidth.StringWidth(quoted[i]))
	}

	bw := bufio.NewWriter(w)
	for i, tok := range toks {
		fmt.Fprintf(bw, "%3d: %s @%d", i+1, runewidth.FillRight(quoted[i], width), tok.Offset)
		if set.File != nil && i < len(set.Tokens) {
			pos := set.File.Position(set.Tokens[i].Span(set.File.ID).Start)
			fmt.Fprintf(bw, " %d:%d", pos.Line, pos.Col)
		}
		if len(tok.Leading) > 0 {
			fmt.Fprintf(bw, " (leading: %s)", strings.Join(tok.Leading, ", "))
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

type ndjsonToken struct {
	Path string `json:"path,omitempty"`
	Index int   `json:"index"`
	TokenOutput
}

func writeNDJSON(w io.Writer, path string, toks []TokenOutput) error {
	encoder := json.NewEncoder(w)
	for i, tok := range toks {
		if err := encoder.Encode(ndjsonToken{Path: path, Index: i, TokenOutput: tok}); err != nil {
			return err
		}
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("yaml: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func writeWords(w io.Writer, list token.List) error {
	bw := bufio.NewWriter(w)
	for _, tok := range list {
		bw.WriteString(tok.Text)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
