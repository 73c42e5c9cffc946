package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that talk to the
// CrossRef API.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-extractor/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// Mailto is the contact email appended to the User-Agent for
	// CrossRef polite-pool access. Optional.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty"`
}

// FetchConfig holds settings for the fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// RequestDelay is the pause between consecutive API requests (default 1s).
	// Already-stored DOIs are skipped without a request and without a pause.
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`

	// StoreDir is the raw store directory, one JSON file per DOI.
	StoreDir string `json:"store_dir" yaml:"store_dir"`

	// ManifestPath is where the run manifest is written. Empty disables it.
	ManifestPath string `json:"manifest_path,omitempty" yaml:"manifest_path,omitempty"`
}

// TabulateConfig holds settings for the tabulate stage.
type TabulateConfig struct {
	// StoreDir is the raw store directory produced by the fetch stage.
	StoreDir string `json:"store_dir" yaml:"store_dir"`

	// OutputPath is the CSV table to write (e.g. "papers.csv").
	OutputPath string `json:"output_path" yaml:"output_path"`
}

// IndexConfig holds settings for the local search index.
type IndexConfig struct {
	// DBPath is the SQLite database file (e.g. "index/papers.db").
	DBPath string `json:"db_path" yaml:"db_path"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
