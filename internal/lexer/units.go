package lexer

import (
	"fmt"
	"strings"

	"wstok/internal/token"
)

// OffsetUnit selects how token offsets are counted in output.
type OffsetUnit uint8

const (
	// ByteOffsets counts offsets in bytes (Go string indices).
	ByteOffsets OffsetUnit = iota
	// RuneOffsets counts offsets in runes.
	RuneOffsets
)

func (u OffsetUnit) String() string {
	if u == RuneOffsets {
		return "rune"
	}
	return "byte"
}

// ParseOffsetUnit accepts "byte" (or "") and "rune".
func ParseOffsetUnit(s string) (OffsetUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "byte", "bytes":
		return ByteOffsets, nil
	case "rune", "runes", "char":
		return RuneOffsets, nil
	default:
		return ByteOffsets, fmt.Errorf("unknown offset unit %q (expected byte|rune)", s)
	}
}

// Convert returns list with offsets in unit u. list must carry byte offsets
// into src.
func (u OffsetUnit) Convert(src string, list token.List) token.List {
	if u == RuneOffsets {
		return ToRuneOffsets(src, list)
	}
	return list
}
