package source

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Normalization selects a Unicode normalization form applied on load.
type Normalization string

const (
	NormNone Normalization = ""
	NormNFC  Normalization = "nfc"
	NormNFD  Normalization = "nfd"
	NormNFKC Normalization = "nfkc"
	NormNFKD Normalization = "nfkd"
)

// ParseNormalization accepts "", "none" and the four form names in any case.
func ParseNormalization(s string) (Normalization, error) {
	switch n := Normalization(strings.ToLower(strings.TrimSpace(s))); n {
	case "none", NormNone:
		return NormNone, nil
	case NormNFC, NormNFD, NormNFKC, NormNFKD:
		return n, nil
	default:
		return NormNone, fmt.Errorf("unknown normalization %q (expected none|nfc|nfd|nfkc|nfkd)", s)
	}
}

func (n Normalization) form() (norm.Form, bool) {
	switch n {
	case NormNFC:
		return norm.NFC, true
	case NormNFD:
		return norm.NFD, true
	case NormNFKC:
		return norm.NFKC, true
	case NormNFKD:
		return norm.NFKD, true
	default:
		return 0, false
	}
}

// Apply normalizes content. It reports whether the bytes changed.
func (n Normalization) Apply(content []byte) ([]byte, bool) {
	f, ok := n.form()
	if !ok || f.IsNormal(content) {
		return content, false
	}
	return f.Bytes(content), true
}

// Decode turns raw input into UTF-8 text.
// A UTF-8 BOM is stripped; UTF-16 with a BOM is transcoded. Anything else is
// returned as is, ill-formed bytes included: validation belongs to the lexer.
// CRLF is left alone so offsets keep pointing into what the user wrote.
func Decode(raw []byte) ([]byte, FileFlags, error) {
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		return raw[len(bomUTF8):], FileHadBOM, nil
	case bytes.HasPrefix(raw, bomUTF16LE), bytes.HasPrefix(raw, bomUTF16BE):
		// ExpectBOM picks the byte order from the BOM and drops it.
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		out, err := dec.Bytes(raw)
		if err != nil {
			return nil, 0, fmt.Errorf("decode utf-16: %w", err)
		}
		return out, FileHadBOM | FileUTF16, nil
	default:
		return raw, 0, nil
	}
}
