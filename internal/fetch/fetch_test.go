// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/pdiddy/paper-extractor/internal/crossref"
	"github.com/pdiddy/paper-extractor/internal/rawstore"
	"github.com/pdiddy/paper-extractor/pkg/types"
)

const sampleWorkJSON = `{
  "status": "ok",
  "message": {
    "DOI": "10.1/a",
    "title": ["Stored Paper"],
    "author": [{"given": "Alice", "family": "Smith"}],
    "is-referenced-by-count": 3
  }
}`

// countingServer serves /works/10.1/a and 404s everything else, counting
// requests per path.
func countingServer(t *testing.T) (*httptest.Server, func(path string) int) {
	t.Helper()

	var mu sync.Mutex
	counts := make(map[string]int)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		counts[r.URL.Path]++
		mu.Unlock()

		if r.URL.Path == "/works/10.1/a" {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, sampleWorkJSON)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(ts.Close)

	get := func(path string) int {
		mu.Lock()
		defer mu.Unlock()
		return counts[path]
	}
	return ts, get
}

func testClient(ts *httptest.Server) *crossref.Client {
	client := crossref.NewClient(ts.Client(), "paper-extractor-test/0.1", "")
	client.BaseURL = ts.URL + "/works/"
	return client
}

func testConfig(dir string) types.FetchConfig {
	return types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			UserAgent: "paper-extractor-test/0.1",
		},
		RequestDelay: 0,
		StoreDir:     dir,
	}
}

func TestFetchBatchMixedOutcome(t *testing.T) {
	ts, requests := countingServer(t)
	dir := t.TempDir()
	var buf bytes.Buffer

	result, err := FetchBatch(context.Background(), testClient(ts), []string{"10.1/a", "10.1/b"}, testConfig(dir), &buf)
	if err != nil {
		t.Fatalf("FetchBatch: %v", err)
	}

	if result.Fetched != 1 {
		t.Errorf("Fetched = %d, want 1", result.Fetched)
	}
	if result.Failed != 1 {
		t.Errorf("Failed = %d, want 1", result.Failed)
	}
	if !result.HasFailures() {
		t.Error("HasFailures should be true")
	}
	if result.Total() != 2 {
		t.Errorf("Total = %d, want 2", result.Total())
	}

	// Exactly one raw file, for the DOI that succeeded.
	store := rawstore.New(dir)
	names, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 1 || names[0] != "10.1-a.json" {
		t.Errorf("store contents = %v, want [10.1-a.json]", names)
	}

	raw, err := store.Read("10.1-a.json")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(raw) != sampleWorkJSON {
		t.Error("stored record differs from API response")
	}

	if requests("/works/10.1/b") != 1 {
		t.Errorf("requests for failing DOI = %d, want 1 (no retry)", requests("/works/10.1/b"))
	}
	if !strings.Contains(buf.String(), "Batch summary:") {
		t.Error("output should contain batch summary")
	}
}

func TestFetchBatchIdempotent(t *testing.T) {
	ts, requests := countingServer(t)
	dir := t.TempDir()
	cfg := testConfig(dir)
	ctx := context.Background()

	if _, err := FetchBatch(ctx, testClient(ts), []string{"10.1/a"}, cfg, &bytes.Buffer{}); err != nil {
		t.Fatalf("first FetchBatch: %v", err)
	}

	before, err := rawstore.New(dir).Read("10.1-a.json")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	var buf bytes.Buffer
	result, err := FetchBatch(ctx, testClient(ts), []string{"10.1/a"}, cfg, &buf)
	if err != nil {
		t.Fatalf("second FetchBatch: %v", err)
	}

	if result.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", result.Skipped)
	}
	if result.Fetched != 0 {
		t.Errorf("Fetched = %d, want 0", result.Fetched)
	}
	if requests("/works/10.1/a") != 1 {
		t.Errorf("requests = %d, want 1 (stored DOI must not be re-fetched)", requests("/works/10.1/a"))
	}
	if !strings.Contains(buf.String(), "skipped:") {
		t.Error("output should contain 'skipped:'")
	}

	after, err := rawstore.New(dir).Read("10.1-a.json")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Error("rerun mutated the stored record")
	}
}

func TestWriteAndReadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	result := BatchResult{Fetched: 3, Skipped: 2, Failed: 1}

	if err := WriteManifest(path, "dois.csv", "raw", result); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}

	m, err := ReadManifest(path)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if m.Source != "dois.csv" {
		t.Errorf("Source = %q, want %q", m.Source, "dois.csv")
	}
	if m.TotalDOIs != 6 {
		t.Errorf("TotalDOIs = %d, want 6", m.TotalDOIs)
	}
	if m.Fetched != 3 || m.Skipped != 2 || m.Failed != 1 {
		t.Errorf("counts = %d/%d/%d, want 3/2/1", m.Fetched, m.Skipped, m.Failed)
	}
	if m.CompletedAt.IsZero() {
		t.Error("CompletedAt should be set")
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("manifest file missing: %v", err)
	}
}

func TestFetchBatchCancelled(t *testing.T) {
	ts, _ := countingServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FetchBatch(ctx, testClient(ts), []string{"10.1/a"}, testConfig(t.TempDir()), &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected context error")
	}
}
