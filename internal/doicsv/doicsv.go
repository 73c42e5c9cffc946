// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package doicsv reads DOI lists from CSV files.
package doicsv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// Read returns the DOIs from the first column of the CSV file at path,
// in file order. Values are trimmed; blank cells and blank lines are
// skipped. The file is expected to be a plain DOI list without a header
// row.
func Read(path string) ([]string, error) {
	return ReadColumn(path, 0)
}

// ReadColumn returns the trimmed, non-blank values of column col
// (zero-based). It fails if the file cannot be opened or if a non-empty
// record does not carry the requested column.
func ReadColumn(path string, col int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening DOI list: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing DOI list %s: %w", path, err)
	}

	var dois []string
	for i, record := range records {
		if isBlank(record) {
			continue
		}
		if col >= len(record) {
			return nil, fmt.Errorf("parsing DOI list %s: row %d has no column %d", path, i+1, col)
		}
		doi := strings.TrimSpace(record[col])
		if doi == "" {
			continue
		}
		dois = append(dois, doi)
	}
	return dois, nil
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
