package main

import (
	"os"
	"path/filepath"
	"testing"

	"companydb/internal/config"
)

func TestReadSpec(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "existing file",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "table.json")
				if err := os.WriteFile(path, []byte(`{"name": "articles"}`), 0o644); err != nil {
					t.Fatalf("write: %v", err)
				}
				return path
			},
		},
		{
			name: "missing file",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "nope.json")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.setup(t)
			b, err := readSpec(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("readSpec() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(b) == 0 {
				t.Fatal("readSpec() returned empty content")
			}
		})
	}
}

// TestReadSpecStdin: "-" reads the process's stdin, not a /dev path.
func TestReadSpecStdin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.json")
	want := `{"name": "articles"}`
	if err := os.WriteFile(path, []byte(want), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	orig := os.Stdin
	os.Stdin = f
	defer func() { os.Stdin = orig }()

	b, err := readSpec("-")
	if err != nil {
		t.Fatalf("readSpec(-) error = %v", err)
	}
	if string(b) != want {
		t.Fatalf("readSpec(-) = %q, want %q", b, want)
	}
}

// TestScanOptions: config defaults fill in only the flags left unset.
func TestScanOptions(t *testing.T) {
	imp := config.ImportConfig{Encoding: "windows-1250", HasHeader: true}

	tests := []struct {
		name         string
		flagEncoding string
		flagHeader   bool
		encodingSet  bool
		headerSet    bool
		wantEncoding string
		wantHeader   bool
	}{
		{
			name:         "nothing set takes config defaults",
			wantEncoding: "windows-1250",
			wantHeader:   true,
		},
		{
			name:         "encoding flag wins",
			flagEncoding: "utf-8",
			encodingSet:  true,
			wantEncoding: "utf-8",
			wantHeader:   true,
		},
		{
			name:         "explicit no-header wins",
			flagHeader:   false,
			headerSet:    true,
			wantEncoding: "windows-1250",
			wantHeader:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoding = tt.flagEncoding
			hasHeader = tt.flagHeader
			defer func() { encoding = ""; hasHeader = false }()

			got := scanOptions(imp, tt.encodingSet, tt.headerSet)
			if got.Encoding != tt.wantEncoding || got.HasHeader != tt.wantHeader {
				t.Fatalf("scanOptions() = %+v, want {%s %v}", got, tt.wantEncoding, tt.wantHeader)
			}
		})
	}
}

func TestPrintVerdict(t *testing.T) {
	if err := printVerdict(true, nil); err != nil {
		t.Fatalf("printVerdict(valid) = %v, want nil", err)
	}
	if err := printVerdict(false, []string{"name required"}); err == nil {
		t.Fatal("printVerdict(invalid) = nil, want error")
	}
}
