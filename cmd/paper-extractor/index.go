// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-extractor/internal/index"
	"github.com/pdiddy/paper-extractor/internal/rawstore"
	"github.com/pdiddy/paper-extractor/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the local full-text search index",
	Long: `Index maintains a SQLite database with FTS5 search over the papers in
the raw store. Use build to ingest stored records and search to query them.`,
}

// --- build subcommand ---

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Ingest stored records into the search index",
	Long: `Build reads every record in the raw store and upserts one row per paper.
Records unchanged since the last build are skipped.`,
	RunE: runIndexBuild,
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	storeDir, _ := cmd.Flags().GetString("store-dir")

	ix, err := index.Open(indexConfig(cmd))
	if err != nil {
		return err
	}
	defer ix.Close()

	summary, err := ix.Build(context.Background(), rawstore.New(storeDir), os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d record(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- search subcommand ---

var indexSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search over indexed papers",
	Long: `Search runs an FTS5 query over title, abstract, authors, and journal,
and prints the matching papers ranked by relevance.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndexSearch,
}

func runIndexSearch(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	ix, err := index.Open(indexConfig(cmd))
	if err != nil {
		return err
	}
	defer ix.Close()

	results, err := ix.Search(context.Background(), strings.Join(args, " "), limit)
	if err != nil {
		return err
	}

	return formatSearchOutput(results, jsonOutput)
}

func formatSearchOutput(results []index.SearchResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-50s  %-20s  %-10s  %s\n",
		"Rank", "Title", "Journal", "Date", "DOI")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for i, r := range results {
		fmt.Fprintf(os.Stdout, "%-4d  %-50s  %-20s  %-10s  %s\n",
			i+1, truncate(r.Title, 50), truncate(r.Journal, 20), r.PublicationDate, r.DOI)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// truncate shortens s to at most max runes, marking the cut with "...".
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// --- shared helpers ---

func indexConfig(cmd *cobra.Command) types.IndexConfig {
	dbPath, _ := cmd.Flags().GetString("db")
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return types.IndexConfig{
		DBPath:     dbPath,
		MaxResults: maxResults,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	indexCmd.PersistentFlags().String("db", "index/papers.db", "SQLite index database path")
	indexCmd.PersistentFlags().Int("max-results", 20, "default maximum number of search results")

	indexBuildCmd.Flags().String("store-dir", defaultStoreDir, "raw store directory produced by fetch")

	indexSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	indexSearchCmd.Flags().Bool("json", false, "output results as JSON")

	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexSearchCmd)

	rootCmd.AddCommand(indexCmd)
}
