package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-extractor/internal/rawstore"
	"github.com/pdiddy/paper-extractor/internal/tabulate"
	"github.com/pdiddy/paper-extractor/pkg/types"
)

var tabulateCmd = &cobra.Command{
	Use:   "tabulate",
	Short: "Flatten stored records into a single CSV table",
	Long: `Tabulate reads every record in the raw store, extracts a fixed set of
fields (DOI, title, abstract, authors, journal, publication date, citation
count, and more), and writes one CSV row per record. Fields absent from a
record become empty cells, never errors.

The table can be regenerated at any time without re-fetching; the raw store
is never modified.`,
	RunE: runTabulate,
}

func init() {
	tabulateCmd.Flags().String("store-dir", defaultStoreDir, "raw store directory produced by fetch")
	tabulateCmd.Flags().String("output", "papers.csv", "output CSV path")

	rootCmd.AddCommand(tabulateCmd)
}

func runTabulate(cmd *cobra.Command, args []string) error {
	storeDir, _ := cmd.Flags().GetString("store-dir")
	output, _ := cmd.Flags().GetString("output")

	cfg := types.TabulateConfig{
		StoreDir:   storeDir,
		OutputPath: output,
	}

	store := rawstore.New(cfg.StoreDir)
	summary, err := tabulate.Tabulate(store, cfg.OutputPath, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d record(s) failed extraction", summary.Failed)
	}
	return nil
}
