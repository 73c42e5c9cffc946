// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index maintains a local SQLite full-text index over the papers
// in the raw store, so stored metadata can be searched without re-reading
// every record.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-extractor/internal/crossref"
	"github.com/pdiddy/paper-extractor/internal/rawstore"
	"github.com/pdiddy/paper-extractor/internal/tabulate"
	"github.com/pdiddy/paper-extractor/pkg/types"
)

// Index wraps the SQLite database holding indexed paper rows.
type Index struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the index database at cfg.DBPath and creates the
// schema if it does not exist.
func Open(cfg types.IndexConfig) (*Index, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	ix := &Index{db: db, maxResults: maxResults}
	if err := ix.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return ix, nil
}

// Close releases the database connection.
func (ix *Index) Close() error {
	return ix.db.Close()
}

func (ix *Index) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			doi TEXT NOT NULL UNIQUE,
			title TEXT,
			abstract TEXT,
			authors TEXT,
			journal TEXT,
			published TEXT,
			citations INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			record TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}
	for _, stmt := range statements {
		if _, err := ix.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := ix.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='papers_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE papers_fts USING fts5(title, abstract, authors, journal, content=papers, content_rowid=rowid)`,
			`CREATE TRIGGER papers_ai AFTER INSERT ON papers BEGIN
				INSERT INTO papers_fts(rowid, title, abstract, authors, journal)
				VALUES (new.rowid, new.title, new.abstract, new.authors, new.journal);
			END`,
			`CREATE TRIGGER papers_ad AFTER DELETE ON papers BEGIN
				INSERT INTO papers_fts(papers_fts, rowid, title, abstract, authors, journal)
				VALUES('delete', old.rowid, old.title, old.abstract, old.authors, old.journal);
			END`,
			`CREATE TRIGGER papers_au AFTER UPDATE ON papers BEGIN
				INSERT INTO papers_fts(papers_fts, rowid, title, abstract, authors, journal)
				VALUES('delete', old.rowid, old.title, old.abstract, old.authors, old.journal);
				INSERT INTO papers_fts(rowid, title, abstract, authors, journal)
				VALUES (new.rowid, new.title, new.abstract, new.authors, new.journal);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := ix.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// BuildSummary holds counts from an index build run.
type BuildSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of records processed.
func (s BuildSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Build reads every record in the raw store and upserts one row per
// paper. Records whose file modification time is unchanged since the
// last build are skipped, so rebuilding an unchanged store is cheap.
func (ix *Index) Build(ctx context.Context, store *rawstore.Store, w io.Writer) (BuildSummary, error) {
	names, err := store.List()
	if err != nil {
		return BuildSummary{}, err
	}

	var summary BuildSummary
	for _, name := range names {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		info, err := os.Stat(filepath.Join(store.Dir, name))
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = ix.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM indexing_status WHERE record = ?`, name,
		).Scan(&storedModTime)
		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", name)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		raw, err := store.Read(name)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}
		work, err := crossref.ParseWork(raw)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: parse error: %v\n", name, err)
			summary.Failed++
			continue
		}

		row := tabulate.ExtractRow(work)
		if row.DOI == "" {
			row.DOI = strings.TrimSuffix(name, ".json")
		}

		if err := ix.upsert(ctx, name, row, modTime); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s\n", row.DOI)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed %s\n", row.DOI)
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)
	return summary, nil
}

func (ix *Index) upsert(ctx context.Context, record string, row tabulate.Row, modTime string) error {
	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	authorsJSON, _ := json.Marshal(row.Authors)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO papers (doi, title, abstract, authors, journal, published, citations)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(doi) DO UPDATE SET
			title=excluded.title, abstract=excluded.abstract, authors=excluded.authors,
			journal=excluded.journal, published=excluded.published, citations=excluded.citations`,
		row.DOI, row.Title, row.Abstract, string(authorsJSON),
		row.Journal, row.PublicationDate, row.CitationCount,
	)
	if err != nil {
		return fmt.Errorf("upserting paper: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO indexing_status (record, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(record) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		record, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}

	return tx.Commit()
}

// SearchResult is one paper matched by a full-text query.
type SearchResult struct {
	DOI             string   `json:"doi"`
	Title           string   `json:"title"`
	Authors         []string `json:"authors"`
	Journal         string   `json:"journal"`
	PublicationDate string   `json:"publication_date"`
	CitationCount   int      `json:"citation_count"`
}

// Search runs an FTS5 query over title, abstract, authors, and journal,
// returning up to limit results ranked by relevance. A zero limit uses
// the index default.
func (ix *Index) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is empty")
	}
	if limit <= 0 {
		limit = ix.maxResults
	}

	rows, err := ix.db.QueryContext(ctx,
		`SELECT p.doi, p.title, p.authors, p.journal, p.published, p.citations
		 FROM papers_fts
		 JOIN papers p ON p.rowid = papers_fts.rowid
		 WHERE papers_fts MATCH ?
		 ORDER BY papers_fts.rank
		 LIMIT ?`,
		query, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var (
			r           SearchResult
			authorsJSON sql.NullString
		)
		if err := rows.Scan(&r.DOI, &r.Title, &authorsJSON, &r.Journal, &r.PublicationDate, &r.CitationCount); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		if authorsJSON.Valid && authorsJSON.String != "" {
			if err := json.Unmarshal([]byte(authorsJSON.String), &r.Authors); err != nil {
				return nil, fmt.Errorf("decoding authors for %s: %w", r.DOI, err)
			}
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
