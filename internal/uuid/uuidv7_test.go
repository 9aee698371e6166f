package uuid

import (
	"strings"
	"testing"
)

func TestNewIsVersion7(t *testing.T) {
	id := New()
	if !IsValid(id) {
		t.Fatalf("expected valid uuid, got %q", id)
	}
	// The version nibble is the first character of the third group.
	if id[14] != '7' {
		t.Errorf("expected version 7, got %q", id)
	}
}

func TestNewIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := New()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestParse(t *testing.T) {
	upper := strings.ToUpper(New())
	got, err := Parse(upper)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != strings.ToLower(upper) {
		t.Errorf("expected canonical form, got %s", got)
	}

	if _, err := Parse("not-a-uuid"); err == nil {
		t.Error("expected error for invalid uuid")
	}
	if IsValid("123") {
		t.Error("expected 123 to be invalid")
	}
}
