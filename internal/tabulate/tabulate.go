// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tabulate runs the second pipeline stage: it reads raw CrossRef
// records from the store, flattens each into one row, and writes a single
// CSV table. Missing fields are normal and extract to empty defaults.
package tabulate

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pdiddy/paper-extractor/internal/crossref"
	"github.com/pdiddy/paper-extractor/internal/rawstore"
)

// Columns is the fixed header of the output table.
var Columns = []string{
	"DOI",
	"Title",
	"Abstract",
	"Authors",
	"Journal",
	"ISSN",
	"Article Type",
	"Publication Date",
	"Citation Count",
	"Reference Count",
	"Subject Areas",
}

// Row is one flattened paper record.
type Row struct {
	DOI             string
	Title           string
	Abstract        string
	Authors         []string
	Journal         string
	ISSN            []string
	ArticleType     string
	PublicationDate string
	CitationCount   int
	ReferenceCount  int
	SubjectAreas    []string
}

// ExtractRow flattens a work record into a Row. Every field falls back
// to an empty value when the record does not carry it; extraction never
// fails on missing data.
func ExtractRow(work *crossref.Work) Row {
	return Row{
		DOI:             work.DOI,
		Title:           work.PrimaryTitle(),
		Abstract:        work.Abstract,
		Authors:         work.AuthorNames(),
		Journal:         work.Journal(),
		ISSN:            work.ISSN,
		ArticleType:     work.Type,
		PublicationDate: work.Issued(),
		CitationCount:   work.IsReferencedByCount,
		ReferenceCount:  len(work.Reference),
		SubjectAreas:    work.Subject,
	}
}

func (r Row) record() []string {
	return []string{
		r.DOI,
		r.Title,
		r.Abstract,
		strings.Join(r.Authors, "; "),
		r.Journal,
		strings.Join(r.ISSN, "; "),
		r.ArticleType,
		r.PublicationDate,
		strconv.Itoa(r.CitationCount),
		strconv.Itoa(r.ReferenceCount),
		strings.Join(r.SubjectAreas, "; "),
	}
}

// WriteCSV writes the header and one line per row to w, preserving row
// order. A write error invalidates the whole table; the raw store is
// unaffected and the stage can simply be rerun.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row.record()); err != nil {
			return fmt.Errorf("writing row for %s: %w", row.DOI, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Summary holds counts from a tabulate run.
type Summary struct {
	Rows   int
	Failed int
}

// Tabulate reads every record in the store, extracts one row per record,
// and writes the table to outPath. Records that cannot be parsed are
// reported and skipped. A missing store directory is an error: the fetch
// stage has to run first. An empty store yields a header-only table.
func Tabulate(store *rawstore.Store, outPath string, w io.Writer) (Summary, error) {
	names, err := store.List()
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	rows := make([]Row, 0, len(names))
	for _, name := range names {
		raw, err := store.Read(name)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
			summary.Failed++
			continue
		}
		work, err := crossref.ParseWork(raw)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
			summary.Failed++
			continue
		}

		row := ExtractRow(work)
		if row.DOI == "" {
			// Record without a DOI field: fall back to the filename stem
			// so the row stays joinable to its source file.
			row.DOI = strings.TrimSuffix(name, ".json")
		}
		rows = append(rows, row)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return summary, fmt.Errorf("creating table %s: %w", outPath, err)
	}
	if err := WriteCSV(out, rows); err != nil {
		out.Close()
		return summary, fmt.Errorf("writing table %s: %w", outPath, err)
	}
	if err := out.Close(); err != nil {
		return summary, fmt.Errorf("closing table %s: %w", outPath, err)
	}

	summary.Rows = len(rows)
	fmt.Fprintf(w, "wrote %d row(s) to %s (%d record(s) failed)\n", summary.Rows, outPath, summary.Failed)
	return summary, nil
}
