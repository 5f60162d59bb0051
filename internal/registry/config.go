// Package registry enumerates the partitioned tracking databases and
// resolves identifiers against them.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// Source describes one partitioned data source: a tracking database
// plus the filesystem root its storage paths are relative to.
type Source struct {
	Name   string `json:"name"`
	Driver string `json:"driver"`
	DSN    string `json:"dsn"`
	Root   string `json:"root"`
}

// SourcesConfig is the parsed sources.json. Partition order in the
// file is the search order.
type SourcesConfig struct {
	Sources []Source `json:"sources"`
}

// LoadSources reads and validates a sources config file.
func LoadSources(path string) (*SourcesConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources config: %w", err)
	}

	var cfg SourcesConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse sources config %s: %w", path, err)
	}

	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("sources config %s declares no partitions", path)
	}

	seen := make(map[string]bool)
	for _, src := range cfg.Sources {
		if src.Name == "" {
			return nil, fmt.Errorf("sources config %s: partition with empty name", path)
		}
		if seen[src.Name] {
			return nil, fmt.Errorf("sources config %s: duplicate partition %q", path, src.Name)
		}
		seen[src.Name] = true

		if src.Driver != DriverSQLite && src.Driver != DriverPostgres {
			return nil, fmt.Errorf("sources config %s: partition %q has unsupported driver %q",
				path, src.Name, src.Driver)
		}
		if src.DSN == "" {
			return nil, fmt.Errorf("sources config %s: partition %q has no dsn", path, src.Name)
		}
	}

	return &cfg, nil
}
