package diag

import (
	"testing"

	"wstok/internal/source"
)

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	for i := 0; i < 3; i++ {
		added := b.Add(Diagnostic{Severity: SevWarning, Code: LexInvalidUTF8})
		if want := i < 2; added != want {
			t.Errorf("Add #%d = %v, want %v", i, added, want)
		}
	}
	if b.Len() != 2 {
		t.Errorf("Len() = %d", b.Len())
	}
	if !b.HasWarnings() || b.HasErrors() {
		t.Error("expected warnings only")
	}
}

func TestBagUnbounded(t *testing.T) {
	b := NewBag(0)
	for i := 0; i < 100; i++ {
		b.Add(Diagnostic{})
	}
	if b.Len() != 100 {
		t.Errorf("Len() = %d, want 100", b.Len())
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(10)
	b.Add(Diagnostic{Severity: SevWarning, Code: LexInvalidUTF8, Primary: source.Span{File: 1, Start: 5, End: 6}})
	b.Add(Diagnostic{Severity: SevError, Code: IOLoadFileError, Primary: source.Span{File: 0}})
	b.Add(Diagnostic{Severity: SevWarning, Code: LexInvalidUTF8, Primary: source.Span{File: 1, Start: 5, End: 6}})
	b.Add(Diagnostic{Severity: SevError, Code: LexInvalidUTF8, Primary: source.Span{File: 1, Start: 2, End: 3}})

	b.Sort()
	b.Dedup()

	items := b.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 items after dedup, got %d", len(items))
	}
	if items[0].Code != IOLoadFileError || items[1].Primary.Start != 2 || items[2].Primary.Start != 5 {
		t.Errorf("unexpected order: %+v", items)
	}
}

func TestBagMerge(t *testing.T) {
	a := NewBag(1)
	a.Add(Diagnostic{Code: LexInvalidUTF8})
	other := NewBag(2)
	other.Add(Diagnostic{Code: IODecodeError, Severity: SevError})
	other.Add(Diagnostic{Code: CacheError})
	a.Merge(other)
	a.Merge(nil)
	if a.Len() != 3 || a.Cap() != 3 {
		t.Errorf("Len/Cap = %d/%d, want 3/3", a.Len(), a.Cap())
	}
	if !a.HasErrors() {
		t.Error("merged error lost")
	}
}

func TestBagReporter(t *testing.T) {
	b := NewBag(4)
	r := BagReporter{Bag: b}
	ReportError(r, LexInvalidUTF8, source.Span{Start: 1, End: 2}, "bad byte")
	ReportWarning(r, CacheError, source.Span{}, "cache miss")
	ReportError(nil, LexInvalidUTF8, source.Span{}, "ignored")
	BagReporter{}.Report(LexInvalidUTF8, SevError, source.Span{}, "dropped", nil)

	if b.Len() != 2 {
		t.Fatalf("Len() = %d", b.Len())
	}
	if d := b.Items()[0]; d.Severity != SevError || d.Message != "bad byte" {
		t.Errorf("unexpected diagnostic %+v", d)
	}
}

func TestCodeID(t *testing.T) {
	tests := map[Code]string{
		LexInvalidUTF8:  "LEX1001",
		IOLoadFileError: "IO3001",
		CacheError:      "CCH4001",
		UnknownCode:     "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %s, want %s", code, got, want)
		}
	}
	if LexInvalidUTF8.Title() == "" || Code(9999).Title() != UnknownCode.Title() {
		t.Error("unexpected titles")
	}
	if SevError.String() != "ERROR" || Severity(9).String() != "UNKNOWN" {
		t.Error("unexpected severity names")
	}
}
