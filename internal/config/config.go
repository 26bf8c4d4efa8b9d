// Package config defines the YAML configuration model for the server and the
// CLI. It is intentionally small and explicit: fields in Go mirror the YAML
// structure, decoding is done by yaml.v3, and a light linter (validate.go)
// reports problems before anything connects or listens.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppConfig is the top-level configuration decoded from a config file.
type AppConfig struct {
	Server   ServerConfig   `yaml:"server" json:"server"`
	Database DatabaseConfig `yaml:"database" json:"database"`
	History  HistoryConfig  `yaml:"history" json:"history"`
	Metrics  MetricsConfig  `yaml:"metrics" json:"metrics"`
	Imports  ImportConfig   `yaml:"imports" json:"imports"`
	Debug    bool           `yaml:"debug" json:"debug"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr" json:"addr"`

	// Apply allows the HTTP API to execute generated statements against the
	// configured database. When false (the default) every endpoint is a dry
	// run that returns statement text only.
	Apply bool `yaml:"apply" json:"apply"`
}

// DatabaseConfig points at the Postgres server holding company databases.
type DatabaseConfig struct {
	// DSN is the pgx/pgxpool connection string (postgresql://...). Optional;
	// without it the server runs in dry-run mode and history listing is
	// unavailable unless the sqlite backend is configured.
	DSN string `yaml:"dsn" json:"dsn"`
}

// HistoryConfig selects where import history is stored.
type HistoryConfig struct {
	// Backend is "postgres" (default when a DSN is configured), "sqlite",
	// or "" for none.
	Backend string `yaml:"backend" json:"backend"`

	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string `yaml:"sqlite_path" json:"sqlite_path"`
}

// MetricsConfig configures the optional Pushgateway backend.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url" json:"pushgateway_url"`
	Job            string `yaml:"job" json:"job"`
}

// ImportConfig carries defaults for file scanning.
type ImportConfig struct {
	// Encoding is the default source encoding ("", "utf-8", "windows-1250").
	Encoding string `yaml:"encoding" json:"encoding"`

	// HasHeader excludes the first line from row counts by default.
	HasHeader bool `yaml:"has_header" json:"has_header"`
}

// Default returns the configuration used when no file is given.
func Default() AppConfig {
	return AppConfig{
		Server: ServerConfig{Addr: ":8080"},
		Metrics: MetricsConfig{
			Job: "companydb",
		},
		Imports: ImportConfig{HasHeader: true},
	}
}

// LoadFile loads YAML config from path, layered over Default.
func LoadFile(path string) (AppConfig, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse: %w", err)
	}
	// A configured DSN implies postgres history unless the file says
	// otherwise ("none" keeps it off).
	if cfg.History.Backend == "" && cfg.Database.DSN != "" {
		cfg.History.Backend = "postgres"
	}
	return cfg, nil
}
