package source

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("poem.txt", []byte("hello world"), 0)
	id2 := fs.Add("poem.txt", []byte("hello universe"), 0)
	if id1 != 0 || id2 != 1 {
		t.Fatalf("unexpected ids %d, %d", id1, id2)
	}

	// Индекс указывает на последнюю версию, старая остаётся доступной
	latest, ok := fs.GetByPath("poem.txt")
	if !ok || latest.ID != id2 {
		t.Fatalf("GetByPath returned %+v, %v", latest, ok)
	}
	if string(fs.Get(id1).Content) != "hello world" {
		t.Errorf("first version lost: %q", fs.Get(id1).Content)
	}
	if fs.Len() != 2 {
		t.Errorf("Len() = %d, want 2", fs.Len())
	}
	if fs.Get(FileID(7)) != nil {
		t.Error("Get with unknown id must return nil")
	}
}

func TestPosition(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t.txt", []byte("ab\nцd e\n\nx"))
	f := fs.Get(id)

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}}, // на самом '\n'
		{3, LineCol{2, 1}},
		{5, LineCol{2, 2}}, // после двухбайтовой 'ц'
		{7, LineCol{2, 4}},
		{10, LineCol{4, 1}},
		{11, LineCol{4, 2}},
		{99, LineCol{4, 2}},
	}
	for _, tt := range tests {
		if got := f.Position(tt.off); got != tt.want {
			t.Errorf("Position(%d) = %+v, want %+v", tt.off, got, tt.want)
		}
	}

	start, end := fs.Resolve(Span{File: id, Start: 3, End: 6})
	if start != (LineCol{2, 1}) || end != (LineCol{2, 3}) {
		t.Errorf("Resolve = %+v..%+v", start, end)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("t.txt", []byte("one\ntwo\n\nfour")))
	want := map[uint32]string{0: "", 1: "one", 2: "two", 3: "", 4: "four", 5: ""}
	for n, line := range want {
		if got := f.GetLine(n); got != line {
			t.Errorf("GetLine(%d) = %q, want %q", n, got, line)
		}
	}
}

func TestLoadKeepsCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.txt")
	if err := os.WriteFile(path, []byte("a\r\nb"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path, LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := fs.Get(id).Text(); got != "a\r\nb" {
		t.Errorf("content = %q, CRLF must be preserved", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "nope.txt"), LoadOptions{}); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadReaderNormalizes(t *testing.T) {
	fs := NewFileSet()
	// "e" + combining acute -> "é" under NFC
	id, err := fs.LoadReader("stdin", strings.NewReader("cafe\u0301 au lait"), LoadOptions{Normalize: NormNFC})
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	f := fs.Get(id)
	if f.Text() != "caf\u00e9 au lait" {
		t.Errorf("content = %q", f.Text())
	}
	if f.Flags&FileNormalized == 0 || f.Flags&FileVirtual == 0 {
		t.Errorf("flags = %b", f.Flags)
	}
}

func TestAddTextSkipsDecoding(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddText("<text>", "\ufeffcafe\u0301", LoadOptions{Normalize: NormNFC}))
	if f.Text() != "\ufeffcaf\u00e9" {
		t.Errorf("content = %q", f.Text())
	}
	if f.Flags&FileHadBOM != 0 || f.Flags&FileNormalized == 0 || f.Flags&FileVirtual == 0 {
		t.Errorf("flags = %b", f.Flags)
	}

	raw := "\xff\xfea\x00"
	if got := fs.Get(fs.AddText("<raw>", raw, LoadOptions{})).Text(); got != raw {
		t.Errorf("utf-16 lookalike changed: %q", got)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		raw   []byte
		want  string
		flags FileFlags
	}{
		{"plain", []byte("a b"), "a b", 0},
		{"utf8 bom", append([]byte{0xEF, 0xBB, 0xBF}, "a b"...), "a b", FileHadBOM},
		{"utf16le", []byte{0xFF, 0xFE, 'a', 0, ' ', 0, 'b', 0}, "a b", FileHadBOM | FileUTF16},
		{"utf16be", []byte{0xFE, 0xFF, 0, 'a', 0, ' ', 0, 'b'}, "a b", FileHadBOM | FileUTF16},
		{"invalid utf8 untouched", []byte{'a', 0xFF, 'b'}, "a\xffb", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, flags, err := Decode(tt.raw)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !bytes.Equal(got, []byte(tt.want)) {
				t.Errorf("content = %q, want %q", got, tt.want)
			}
			if flags != tt.flags {
				t.Errorf("flags = %b, want %b", flags, tt.flags)
			}
		})
	}
}

func TestParseNormalization(t *testing.T) {
	for in, want := range map[string]Normalization{"": NormNone, "none": NormNone, "NFC": NormNFC, " nfkd ": NormNFKD} {
		got, err := ParseNormalization(in)
		if err != nil || got != want {
			t.Errorf("ParseNormalization(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseNormalization("nfx"); err == nil {
		t.Error("expected error for unknown form")
	}
	if out, changed := NormNone.Apply([]byte("x")); changed || string(out) != "x" {
		t.Error("NormNone must not change content")
	}
}

func TestSpanHelpers(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got != (Span{File: 1, Start: 2, End: 8}) {
		t.Errorf("Cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 100}); got != a {
		t.Errorf("Cover across files must be a no-op, got %v", got)
	}
	if !a.Contains(Span{File: 1, Start: 5, End: 8}) || a.Contains(b) {
		t.Error("Contains misbehaves")
	}
	if a.Len() != 4 || a.Empty() || a.String() != "1:4-8" {
		t.Errorf("Len/Empty/String = %d/%v/%s", a.Len(), a.Empty(), a.String())
	}
}
