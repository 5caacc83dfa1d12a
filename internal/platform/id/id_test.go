package id

import (
	"encoding/base32"
	"strings"
	"testing"
)

func TestNewID(t *testing.T) {
	id, err := NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}

	if len(id) != 26 {
		t.Fatalf("len(id) = %d, want 26", len(id))
	}
	if id != strings.ToLower(id) {
		t.Fatalf("id = %q, want lower case", id)
	}
	if strings.Contains(id, "=") {
		t.Fatalf("id = %q, want no padding", id)
	}

	decoded, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(strings.ToUpper(id))
	if err != nil {
		t.Fatalf("decode id: %v", err)
	}
	if len(decoded) != 16 {
		t.Fatalf("decoded %d bytes, want 16", len(decoded))
	}
	if version := decoded[6] >> 4; version != 4 {
		t.Fatalf("uuid version = %d, want 4", version)
	}
	if variant := decoded[8] & 0xC0; variant != 0x80 {
		t.Fatalf("uuid variant = 0x%X, want 0x80", variant)
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
