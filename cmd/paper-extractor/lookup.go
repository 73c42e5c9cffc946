package main

import (
	"context"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-extractor/internal/crossref"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <doi>",
	Short: "Fetch one DOI and print its metadata",
	Long: `Lookup retrieves a single work record from the CrossRef API and prints a
human-readable report: title, authors with ORCIDs and affiliations, journal,
publication date, citation count, subject areas, funding, and references.
Nothing is written to the raw store.`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	lookupCmd.Flags().String("mailto", "", "contact email for CrossRef polite-pool access")

	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	mailto, _ := cmd.Flags().GetString("mailto")

	client := crossref.NewClient(
		&http.Client{Timeout: timeout},
		defaultUserAgent,
		secretDefault("crossref-mailto", mailto),
	)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	_, work, err := client.FetchWork(ctx, args[0])
	if err != nil {
		return err
	}

	crossref.Report(os.Stdout, work)
	return nil
}
