// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package doicsv

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dois.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRead(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			"single column",
			"10.1021/jp206881t\n10.1016/j.commatsci.2009.03.015\n",
			[]string{"10.1021/jp206881t", "10.1016/j.commatsci.2009.03.015"},
		},
		{
			"trims whitespace",
			"  10.1021/jp206881t  \n",
			[]string{"10.1021/jp206881t"},
		},
		{
			"skips blank lines and cells",
			"10.1/a\n\n  \n10.1/b\n,extra\n",
			[]string{"10.1/a", "10.1/b"},
		},
		{
			"multiple columns uses first",
			"10.1/a,Some Title\n10.1/b,Another Title\n",
			[]string{"10.1/a", "10.1/b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(writeCSV(t, tt.content))
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d (%v)", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("dois[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestReadColumn(t *testing.T) {
	path := writeCSV(t, "title a,10.1/a\ntitle b,10.1/b\n")

	got, err := ReadColumn(path, 1)
	if err != nil {
		t.Fatalf("ReadColumn: %v", err)
	}
	if len(got) != 2 || got[0] != "10.1/a" || got[1] != "10.1/b" {
		t.Errorf("ReadColumn = %v, want [10.1/a 10.1/b]", got)
	}
}

func TestReadColumnMissing(t *testing.T) {
	path := writeCSV(t, "10.1/a,second\n10.1/b\n")

	_, err := ReadColumn(path, 1)
	if err == nil {
		t.Fatal("expected error for missing column")
	}
	if !strings.Contains(err.Error(), "no column 1") {
		t.Errorf("error = %q, want mention of missing column", err)
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "does-not-exist.csv"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want wrapped os.ErrNotExist", err)
	}
}
