// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rawstore persists per-DOI CrossRef responses as JSON files.
// The store directory is the sole interface between the fetch and
// tabulate stages: fetch writes each response once, tabulate reads
// whatever is present.
package rawstore

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

const recordExt = ".json"

// unsafeChars matches everything that may not appear in a record filename.
var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// Slug returns a deterministic, filesystem-safe filename stem for a DOI.
// DOIs differing only in unsafe characters can collide; in practice the
// registrant/suffix structure keeps slugs unique.
func Slug(doi string) string {
	return unsafeChars.ReplaceAllString(doi, "-")
}

// Store is a directory of raw records, one file per DOI.
type Store struct {
	Dir string
}

// New returns a Store rooted at dir. The directory is created lazily on
// first write.
func New(dir string) *Store {
	return &Store{Dir: dir}
}

// Path returns the record filename for a DOI.
func (s *Store) Path(doi string) string {
	return filepath.Join(s.Dir, Slug(doi)+recordExt)
}

// Has reports whether a record for the DOI already exists.
func (s *Store) Has(doi string) bool {
	_, err := os.Stat(s.Path(doi))
	return err == nil
}

// Write persists a raw response for the DOI. Records are immutable: an
// existing record is left untouched and no error is returned, so reruns
// cannot mutate earlier results. The write goes through a temp file and
// a rename so a crash never leaves a partial record behind.
func (s *Store) Write(doi string, raw []byte) error {
	if s.Has(doi) {
		return nil
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("creating store directory %s: %w", s.Dir, err)
	}

	tmp, err := os.CreateTemp(s.Dir, ".record-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(raw)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing record: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, s.Path(doi)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Read returns the raw bytes of a record by filename, as listed by List.
func (s *Store) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	if err != nil {
		return nil, fmt.Errorf("reading record %s: %w", name, err)
	}
	return data, nil
}

// List returns the record filenames in the store, sorted. Non-record
// files (temp files, manifests) are ignored.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("reading store directory %s: %w", s.Dir, err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, recordExt) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
