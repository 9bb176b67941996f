package testkit

import (
	"strings"
	"testing"

	"wstok/internal/token"
)

func TestCheckTokenInvariantsAcceptsValid(t *testing.T) {
	input := "  a  b "
	list := token.List{{Text: "a", Offset: 2}, {Text: "b", Offset: 5}}
	if err := CheckTokenInvariants(input, list); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckTokenInvariants(" \t\n", nil); err != nil {
		t.Fatalf("unexpected error for whitespace-only input: %v", err)
	}
}

func TestCheckTokenInvariantsRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		list  token.List
		want  string
	}{
		{"empty token", "a", token.List{{Text: "", Offset: 0}}, "empty"},
		{"missed text", "a b", token.List{{Text: "a", Offset: 0}}, "not covered"},
		{"wrong text", "a b", token.List{{Text: "a", Offset: 0}, {Text: "c", Offset: 2}}, "differs"},
		{"whitespace inside", "a b", token.List{{Text: "a b", Offset: 0}}, "contains whitespace"},
		{"touching", "ab", token.List{{Text: "a", Offset: 0}, {Text: "b", Offset: 1}}, "not maximal"},
		{"overlap", "ab", token.List{{Text: "ab", Offset: 0}, {Text: "b", Offset: 1}}, "overlaps"},
		{"out of range", "a", token.List{{Text: "ab", Offset: 0}}, "beyond"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckTokenInvariants(tt.input, tt.list)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}
