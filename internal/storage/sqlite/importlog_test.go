package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"companydb/internal/importlog"
)

// TestHistoryStoreRoundTrip inserts records into a fresh on-disk database
// and lists them back, checking ordering, filtering, and NULL handling.
func TestHistoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()

	store, closeFn, err := Open(ctx, filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() unexpected error = %v", err)
	}
	defer closeFn()

	if err := store.Init(ctx); err != nil {
		t.Fatalf("Init() unexpected error = %v", err)
	}
	// Init must be idempotent.
	if err := store.Init(ctx); err != nil {
		t.Fatalf("Init() second run unexpected error = %v", err)
	}

	started := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	recs := []importlog.Record{
		{Database: "acme", TableName: "orders", FileName: "orders.csv",
			SizeBytes: 1234, Checksum: "00aabbccddeeff11", Rows: 41,
			Status: importlog.StatusOK, StartedAt: started, FinishedAt: started.Add(2 * time.Second)},
		{Database: "acme", FileName: "broken.csv", Status: importlog.StatusFailed,
			Error: "row 7: bad date"},
		{Database: "globex", TableName: "staff", FileName: "staff.csv",
			Rows: 9, Status: importlog.StatusOK},
	}
	for i, rec := range recs {
		id, err := store.Insert(ctx, rec)
		if err != nil {
			t.Fatalf("Insert(#%d) unexpected error = %v", i, err)
		}
		if id <= 0 {
			t.Fatalf("Insert(#%d) id = %d, want positive", i, id)
		}
	}

	all, err := store.List(ctx, "", 10)
	if err != nil {
		t.Fatalf("List() unexpected error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List() = %d records, want 3", len(all))
	}
	if all[0].FileName != "staff.csv" {
		t.Fatalf("List() newest first, got %q", all[0].FileName)
	}

	acme, err := store.List(ctx, "acme", 10)
	if err != nil {
		t.Fatalf("List(acme) unexpected error = %v", err)
	}
	if len(acme) != 2 {
		t.Fatalf("List(acme) = %d records, want 2", len(acme))
	}
	if acme[0].Status != importlog.StatusFailed || acme[0].Error != "row 7: bad date" {
		t.Fatalf("List(acme)[0] = %+v", acme[0])
	}
	if !acme[1].StartedAt.Equal(started) {
		t.Fatalf("List(acme)[1].StartedAt = %v, want %v", acme[1].StartedAt, started)
	}

	limited, err := store.List(ctx, "", 1)
	if err != nil {
		t.Fatalf("List(limit=1) unexpected error = %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("List(limit=1) = %d records, want 1", len(limited))
	}
}

// TestOpenEmptyDSN rejects a blank DSN.
func TestOpenEmptyDSN(t *testing.T) {
	if _, _, err := Open(context.Background(), "  "); err == nil {
		t.Fatal("Open(\"\") = nil error, want DSN error")
	}
}
