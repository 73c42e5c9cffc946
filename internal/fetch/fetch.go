// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch runs the first pipeline stage: a CSV of DOIs in, one raw
// CrossRef response file per DOI out. DOIs already present in the store
// are skipped without a network request, so an interrupted run resumes
// where it stopped.
package fetch

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/paper-extractor/internal/crossref"
	"github.com/pdiddy/paper-extractor/internal/rawstore"
	"github.com/pdiddy/paper-extractor/pkg/types"
)

// BatchResult holds the outcome of a fetch run.
type BatchResult struct {
	Fetched int
	Skipped int
	Failed  int
}

// Total returns the total number of DOIs processed.
func (r BatchResult) Total() int {
	return r.Fetched + r.Skipped + r.Failed
}

// HasFailures reports whether any DOIs failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// FetchBatch fetches every DOI in order, printing per-item status to w
// and returning a summary. Individual failures are reported and skipped;
// they never abort the batch. A delay separates consecutive API requests
// but is not applied before skipped items.
func FetchBatch(ctx context.Context, client *crossref.Client, dois []string, cfg types.FetchConfig, w io.Writer) (BatchResult, error) {
	store := rawstore.New(cfg.StoreDir)

	var result BatchResult
	requested := false
	for _, doi := range dois {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if store.Has(doi) {
			fmt.Fprintf(w, "skipped: %s (already stored)\n", doi)
			result.Skipped++
			continue
		}

		if requested && cfg.RequestDelay > 0 {
			time.Sleep(cfg.RequestDelay)
		}
		requested = true

		raw, work, err := client.FetchWork(ctx, doi)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", doi, err)
			result.Failed++
			continue
		}

		if err := store.Write(doi, raw); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", doi, err)
			result.Failed++
			continue
		}

		fmt.Fprintf(w, "fetched: %s (%s)\n", doi, firstNonEmpty(work.PrimaryTitle(), "untitled"))
		result.Fetched++
	}

	fmt.Fprintf(w, "\nBatch summary: %d fetched, %d skipped, %d failed (total: %d)\n",
		result.Fetched, result.Skipped, result.Failed, result.Total())
	return result, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
