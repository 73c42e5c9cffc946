// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// Manifest is the on-disk record of one fetch run. It is informational
// only; the raw store itself is the source of truth for what is fetched.
type Manifest struct {
	Source      string    `yaml:"source"`
	StoreDir    string    `yaml:"store_dir"`
	TotalDOIs   int       `yaml:"total_dois"`
	Fetched     int       `yaml:"fetched"`
	Skipped     int       `yaml:"skipped"`
	Failed      int       `yaml:"failed"`
	CompletedAt time.Time `yaml:"completed_at"`
}

// WriteManifest saves a run summary to path as YAML.
func WriteManifest(path, source, storeDir string, result BatchResult) error {
	m := Manifest{
		Source:      source,
		StoreDir:    storeDir,
		TotalDOIs:   result.Total(),
		Fetched:     result.Fetched,
		Skipped:     result.Skipped,
		Failed:      result.Failed,
		CompletedAt: time.Now(),
	}

	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadManifest loads a previously written run manifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}
