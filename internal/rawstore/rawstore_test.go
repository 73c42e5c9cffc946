// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rawstore

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		doi  string
		want string
	}{
		{"plain doi", "10.1021/jp206881t", "10.1021-jp206881t"},
		{"nested slashes", "10.1145/1234567.1234568", "10.1145-1234567.1234568"},
		{"colon and angle brackets", "10.1002/(SICI)1097-4628", "10.1002--SICI-1097-4628"},
		{"keeps dots dashes underscores", "10.1038/s41586-024_07487.w", "10.1038-s41586-024_07487.w"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slug(tt.doi); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.doi, got, tt.want)
			}
		})
	}
}

func TestSlugDeterministic(t *testing.T) {
	if Slug("10.1/a b") != Slug("10.1/a b") {
		t.Error("Slug must be deterministic")
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "raw"))
	raw := []byte(`{"status": "ok", "message": {"DOI": "10.1/a"}}`)

	if s.Has("10.1/a") {
		t.Fatal("Has should be false before write")
	}
	if err := s.Write("10.1/a", raw); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !s.Has("10.1/a") {
		t.Fatal("Has should be true after write")
	}

	got, err := s.Read("10.1-a.json")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("Read = %q, want byte-identical %q", got, raw)
	}
}

func TestWriteIsImmutable(t *testing.T) {
	s := New(t.TempDir())
	original := []byte(`{"message": {"DOI": "10.1/a", "title": ["original"]}}`)

	if err := s.Write("10.1/a", original); err != nil {
		t.Fatalf("Write: %v", err)
	}
	// A second write for the same DOI must leave the record untouched.
	if err := s.Write("10.1/a", []byte(`{"mutated": true}`)); err != nil {
		t.Fatalf("second Write: %v", err)
	}

	got, err := s.Read("10.1-a.json")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(got, original) {
		t.Errorf("record mutated by second write: %q", got)
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	for _, doi := range []string{"10.1/b", "10.1/a"} {
		if err := s.Write(doi, []byte(`{}`)); err != nil {
			t.Fatalf("Write(%q): %v", doi, err)
		}
	}
	// Non-record files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "manifest.yaml"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".record-123.tmp"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	names, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"10.1-a.json", "10.1-b.json"}
	if len(names) != len(want) {
		t.Fatalf("List = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("List[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestListMissingDir(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "does-not-exist"))
	if _, err := s.List(); err == nil {
		t.Error("expected error listing a missing store")
	}
}
