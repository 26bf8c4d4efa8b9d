package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block startup.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding that should be surfaced to the
	// operator but does not block startup.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is a dotted path into
// the config (e.g. "history.backend"); Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error where convenient.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Validate performs static checks over a decoded AppConfig and returns every
// finding. It does not mutate the config; callers decide whether warnings
// are fatal.
func Validate(cfg AppConfig) []Issue {
	var issues []Issue

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "server.addr",
			Message:  "listen address must not be empty",
		})
	}

	if cfg.Server.Apply && strings.TrimSpace(cfg.Database.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "server.apply",
			Message:  "apply mode requires database.dsn",
		})
	}

	switch strings.ToLower(strings.TrimSpace(cfg.History.Backend)) {
	case "", "none":
		// history disabled
	case "postgres":
		if strings.TrimSpace(cfg.Database.DSN) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "history.backend",
				Message:  "postgres history backend requires database.dsn",
			})
		}
	case "sqlite":
		if strings.TrimSpace(cfg.History.SQLitePath) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "history.sqlite_path",
				Message:  "sqlite history backend requires a database file path",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "history.backend",
			Message:  fmt.Sprintf("unknown history backend %q; expected postgres, sqlite, or none", cfg.History.Backend),
		})
	}

	if cfg.Metrics.PushgatewayURL != "" && strings.TrimSpace(cfg.Metrics.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "metrics.job",
			Message:  "empty job name; metrics will be grouped under the default",
		})
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Imports.Encoding)) {
	case "", "utf-8", "utf8", "windows-1250", "cp1250":
		// supported
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "imports.encoding",
			Message:  fmt.Sprintf("unsupported encoding %q", cfg.Imports.Encoding),
		})
	}

	return issues
}

// Errors filters issues down to the blocking ones.
func Errors(issues []Issue) []Issue {
	var out []Issue
	for _, i := range issues {
		if i.Severity == SeverityError {
			out = append(out, i)
		}
	}
	return out
}
