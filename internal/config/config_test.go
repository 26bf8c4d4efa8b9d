package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadFile decodes a full config and checks defaults layer underneath.
func TestLoadFile(t *testing.T) {
	t.Parallel()

	body := []byte(`
server:
  addr: ":9090"
  apply: true
database:
  dsn: "postgresql://app:secret@db:5432/companies"
history:
  backend: postgres
metrics:
  pushgateway_url: "http://pushgateway:9091"
imports:
  encoding: windows-1250
  has_header: true
debug: true
`)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() unexpected error = %v", err)
	}
	if cfg.Server.Addr != ":9090" || !cfg.Server.Apply {
		t.Fatalf("server config = %+v", cfg.Server)
	}
	if cfg.Metrics.Job != "companydb" {
		t.Fatalf("metrics job default not applied: %+v", cfg.Metrics)
	}
	if cfg.Imports.Encoding != "windows-1250" {
		t.Fatalf("imports config = %+v", cfg.Imports)
	}
	if !cfg.Debug {
		t.Fatal("debug flag not decoded")
	}
}

// TestLoadFileHistoryDefault: a DSN implies postgres history unless the
// file opts out.
func TestLoadFileHistoryDefault(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		wantBackend string
	}{
		{
			name:        "dsn alone turns history on",
			body:        "database:\n  dsn: \"postgres://app@db:5432/companies\"\n",
			wantBackend: "postgres",
		},
		{
			name:        "explicit none wins over the dsn",
			body:        "database:\n  dsn: \"postgres://app@db:5432/companies\"\nhistory:\n  backend: none\n",
			wantBackend: "none",
		},
		{
			name:        "no dsn leaves history off",
			body:        "server:\n  addr: \":9090\"\n",
			wantBackend: "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}

			cfg, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile() unexpected error = %v", err)
			}
			if cfg.History.Backend != tt.wantBackend {
				t.Fatalf("history backend = %q, want %q", cfg.History.Backend, tt.wantBackend)
			}
		})
	}
}

// TestLoadFileMissing surfaces read errors.
func TestLoadFileMissing(t *testing.T) {
	t.Parallel()

	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("LoadFile() = nil error for missing file")
	}
}

// TestValidate covers the blocking and warning findings.
func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*AppConfig)
		wantPath  string
		wantError bool
	}{
		{
			name:   "default config is clean",
			mutate: func(c *AppConfig) {},
		},
		{
			name:      "empty addr",
			mutate:    func(c *AppConfig) { c.Server.Addr = "" },
			wantPath:  "server.addr",
			wantError: true,
		},
		{
			name:      "apply without dsn",
			mutate:    func(c *AppConfig) { c.Server.Apply = true },
			wantPath:  "server.apply",
			wantError: true,
		},
		{
			name:      "postgres history without dsn",
			mutate:    func(c *AppConfig) { c.History.Backend = "postgres" },
			wantPath:  "history.backend",
			wantError: true,
		},
		{
			name:      "sqlite history without path",
			mutate:    func(c *AppConfig) { c.History.Backend = "sqlite" },
			wantPath:  "history.sqlite_path",
			wantError: true,
		},
		{
			name:      "unknown history backend",
			mutate:    func(c *AppConfig) { c.History.Backend = "redis" },
			wantPath:  "history.backend",
			wantError: true,
		},
		{
			name:      "unsupported encoding",
			mutate:    func(c *AppConfig) { c.Imports.Encoding = "koi8-r" },
			wantPath:  "imports.encoding",
			wantError: true,
		},
		{
			name: "pushgateway without job warns",
			mutate: func(c *AppConfig) {
				c.Metrics.PushgatewayURL = "http://pushgateway:9091"
				c.Metrics.Job = ""
			},
			wantPath: "metrics.job",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(&cfg)

			issues := Validate(cfg)
			if tt.wantPath == "" {
				if len(issues) != 0 {
					t.Fatalf("Validate() = %v, want none", issues)
				}
				return
			}

			var found *Issue
			for i := range issues {
				if issues[i].Path == tt.wantPath {
					found = &issues[i]
				}
			}
			if found == nil {
				t.Fatalf("Validate() = %v, want issue at %s", issues, tt.wantPath)
			}
			if tt.wantError && found.Severity != SeverityError {
				t.Fatalf("issue severity = %s, want error", found.Severity)
			}
			if !tt.wantError && found.Severity != SeverityWarning {
				t.Fatalf("issue severity = %s, want warning", found.Severity)
			}
		})
	}
}

// TestErrors filters warnings out.
func TestErrors(t *testing.T) {
	t.Parallel()

	issues := []Issue{
		{Severity: SeverityWarning, Path: "a"},
		{Severity: SeverityError, Path: "b"},
	}
	got := Errors(issues)
	if len(got) != 1 || got[0].Path != "b" {
		t.Fatalf("Errors() = %v", got)
	}
}
