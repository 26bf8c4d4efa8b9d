package importlog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/zeebo/xxh3"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

// TestScanFile covers row counting (headers, blank lines, missing trailing
// newline) and the checksum contract: xxh3-64 of the raw bytes, hex encoded.
func TestScanFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     []byte
		opts     ScanOptions
		wantRows int64
	}{
		{name: "plain lines", data: []byte("a\nb\nc\n"), wantRows: 3},
		{name: "no trailing newline", data: []byte("a\nb"), wantRows: 2},
		{name: "header excluded", data: []byte("h1;h2\n1;2\n3;4\n"), opts: ScanOptions{HasHeader: true}, wantRows: 2},
		{name: "blank lines skipped", data: []byte("a\n\n\nb\n"), wantRows: 2},
		{name: "empty file", data: nil, wantRows: 0},
		{name: "header only", data: []byte("h1;h2\n"), opts: ScanOptions{HasHeader: true}, wantRows: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeTemp(t, "in.csv", tt.data)
			got, err := ScanFile(context.Background(), path, tt.opts)
			if err != nil {
				t.Fatalf("ScanFile() unexpected error = %v", err)
			}
			if got.Rows != tt.wantRows {
				t.Fatalf("ScanFile() rows = %d, want %d", got.Rows, tt.wantRows)
			}
			if got.SizeBytes != int64(len(tt.data)) {
				t.Fatalf("ScanFile() size = %d, want %d", got.SizeBytes, len(tt.data))
			}
			want := fmt.Sprintf("%016x", xxh3.Hash(tt.data))
			if got.Checksum != want {
				t.Fatalf("ScanFile() checksum = %s, want %s", got.Checksum, want)
			}
		})
	}
}

// TestScanFileWindows1250 ensures legacy-encoded files are decoded while
// counting rows.
func TestScanFileWindows1250(t *testing.T) {
	t.Parallel()

	// "č" is 0xE8 in Windows-1250.
	data := []byte{'n', 0xE8, '\n', 'x', '\n'}
	path := writeTemp(t, "legacy.csv", data)

	got, err := ScanFile(context.Background(), path, ScanOptions{Encoding: "windows-1250"})
	if err != nil {
		t.Fatalf("ScanFile() unexpected error = %v", err)
	}
	if got.Rows != 2 {
		t.Fatalf("ScanFile() rows = %d, want 2", got.Rows)
	}
}

// TestScanFileUnsupportedEncoding rejects encodings we cannot decode.
func TestScanFileUnsupportedEncoding(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "in.csv", []byte("a\n"))
	if _, err := ScanFile(context.Background(), path, ScanOptions{Encoding: "koi8-r"}); err == nil {
		t.Fatal("ScanFile() = nil error, want unsupported-encoding error")
	}
}

// TestScanFileMissing surfaces stat errors.
func TestScanFileMissing(t *testing.T) {
	t.Parallel()

	if _, err := ScanFile(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), ScanOptions{}); err == nil {
		t.Fatal("ScanFile() = nil error for missing file")
	}
}
