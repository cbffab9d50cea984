package identity

import (
	"strings"
	"testing"
)

func TestNewIDCanonicalLayout(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		id := NewID()

		if len(id) != 36 {
			t.Fatalf("expected 36-char id, got %d: %q", len(id), id)
		}
		for _, pos := range []int{8, 13, 18, 23} {
			if id[pos] != '-' {
				t.Fatalf("expected hyphen at position %d: %q", pos, id)
			}
		}
		if id[14] != '4' {
			t.Fatalf("expected version nibble 4, got %c in %q", id[14], id)
		}
		if !strings.ContainsRune("89ab", rune(id[19])) {
			t.Fatalf("expected variant nibble in {8,9,a,b}, got %c in %q", id[19], id)
		}

		if seen[id] {
			t.Fatalf("collision within sample: %q", id)
		}
		seen[id] = true
	}
}

func TestIsValidSessionID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"uuid", NewID(), true},
		{"server issued", "sess-42", true},
		{"dots and colons", "a.b:c_d", true},
		{"empty", "", false},
		{"whitespace", "sess 42", false},
		{"path traversal", "../etc/passwd", false},
		{"slash", "a/b", false},
		{"too long", strings.Repeat("a", 129), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidSessionID(tt.id); got != tt.want {
				t.Errorf("IsValidSessionID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}
