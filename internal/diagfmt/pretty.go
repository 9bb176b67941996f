package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"wstok/internal/diag"
	"wstok/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		writeHeader(w, fs, d.Primary, opts.PathMode, p.severity(d.Severity).Sprint(d.Severity.String()), p.code.Sprint(d.Code.ID()), d.Message)
		writeSnippet(w, fs, d.Primary, p.caret)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			writeHeader(w, fs, n.Span, opts.PathMode, p.note.Sprint("note"), "", n.Msg)
			writeSnippet(w, fs, n.Span, p.caret)
		}
	}
}

type palette struct {
	err, warn, info, note, code, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:   color.New(color.FgRed, color.Bold),
		warn:  color.New(color.FgYellow, color.Bold),
		info:  color.New(color.FgCyan),
		note:  color.New(color.FgBlue),
		code:  color.New(color.Bold),
		caret: color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.code, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

func writeHeader(w io.Writer, fs *source.FileSet, span source.Span, mode PathMode, sev, code, msg string) {
	f := fs.Get(span.File)
	start, _ := fs.Resolve(span)
	if code != "" {
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", formatPath(f, fs, mode), start.Line, start.Col, sev, code, msg)
		return
	}
	fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", formatPath(f, fs, mode), start.Line, start.Col, sev, msg)
}

// writeSnippet печатает строку span.Start и подчёркивание до конца span или строки.
func writeSnippet(w io.Writer, fs *source.FileSet, span source.Span, caret *color.Color) {
	f := fs.Get(span.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(span)
	line := f.GetLine(start.Line)
	runes := []rune(line)
	if int(start.Col-1) > len(runes) {
		return
	}
	prefix := string(runes[:start.Col-1])
	stop := len(runes)
	if end.Line == start.Line && int(end.Col-1) <= len(runes) {
		stop = int(end.Col - 1)
	}
	under := runewidth.StringWidth(string(runes[start.Col-1 : stop]))
	if under < 1 {
		under = 1
	}

	gutter := fmt.Sprintf("%d", start.Line)
	pad := strings.Repeat(" ", len(gutter))
	fmt.Fprintf(w, "%s |\n", pad)
	fmt.Fprintf(w, "%s | %s\n", gutter, strings.ReplaceAll(line, "\t", " "))
	fmt.Fprintf(w, "%s | %s%s\n", pad, strings.Repeat(" ", runewidth.StringWidth(prefix)), caret.Sprint("^"+strings.Repeat("~", under-1)))
}
