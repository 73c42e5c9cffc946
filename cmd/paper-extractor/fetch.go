package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-extractor/internal/crossref"
	"github.com/pdiddy/paper-extractor/internal/doicsv"
	"github.com/pdiddy/paper-extractor/internal/fetch"
	"github.com/pdiddy/paper-extractor/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultDelay     = 1 * time.Second
	defaultUserAgent = "paper-extractor/0.1"
	defaultStoreDir  = "raw"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <dois.csv>",
	Short: "Fetch CrossRef metadata for a CSV of DOIs into the raw store",
	Long: `Fetch reads DOIs from a CSV column, retrieves each work record from the
CrossRef API, and stores the unmodified JSON response as one file per DOI.
DOIs already present in the store are skipped without a network request, so
rerunning after a partial failure resumes where the last run stopped.

Per-DOI failures (network errors, HTTP 404) are reported and skipped; they
never abort the batch.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	fetchCmd.Flags().Duration("delay", 0, "delay between consecutive API requests (default 1s)")
	fetchCmd.Flags().String("store-dir", defaultStoreDir, "raw store directory, one JSON file per DOI")
	fetchCmd.Flags().Int("column", 0, "zero-based CSV column holding the DOIs")
	fetchCmd.Flags().String("mailto", "", "contact email for CrossRef polite-pool access")
	fetchCmd.Flags().String("manifest", "manifest.yaml", "run manifest path (empty to disable)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultDelay
	}
	storeDir, _ := cmd.Flags().GetString("store-dir")
	column, _ := cmd.Flags().GetInt("column")
	mailto, _ := cmd.Flags().GetString("mailto")
	manifestPath, _ := cmd.Flags().GetString("manifest")

	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
			Mailto:    secretDefault("crossref-mailto", mailto),
		},
		RequestDelay: delay,
		StoreDir:     storeDir,
		ManifestPath: manifestPath,
	}

	dois, err := doicsv.ReadColumn(args[0], column)
	if err != nil {
		return err
	}
	if len(dois) == 0 {
		return fmt.Errorf("no DOIs found in %s", args[0])
	}

	client := crossref.NewClient(&http.Client{Timeout: cfg.Timeout}, cfg.UserAgent, cfg.Mailto)

	result, err := fetch.FetchBatch(context.Background(), client, dois, cfg, os.Stdout)
	if err != nil {
		return err
	}

	if cfg.ManifestPath != "" {
		if err := fetch.WriteManifest(cfg.ManifestPath, args[0], cfg.StoreDir, result); err != nil {
			fmt.Fprintf(os.Stderr, "warning: manifest write failed: %v\n", err)
		}
	}

	if result.HasFailures() {
		return fmt.Errorf("%d DOI(s) failed to fetch", result.Failed)
	}
	return nil
}
