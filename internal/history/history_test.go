package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_RecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	runs := []Run{
		{StartedAt: base, Directory: "/src/a", Model: "m1", FileCount: 3, ExitCode: 0},
		{StartedAt: base.Add(time.Minute), Directory: "/src/b", Model: "m2", FileCount: 0, ExitCode: 1},
		{StartedAt: base.Add(2 * time.Minute), Directory: "/src/c", Model: "m1", FileCount: 12, ExitCode: 0, OutputFile: "/tmp/c.md", Tokens: 900},
	}
	for _, run := range runs {
		if _, err := store.Record(ctx, run); err != nil {
			t.Fatalf("Record() error: %v", err)
		}
	}

	got, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent() returned %d runs, want 2", len(got))
	}

	newest := got[0]
	if newest.Directory != "/src/c" || newest.FileCount != 12 || newest.OutputFile != "/tmp/c.md" || newest.Tokens != 900 {
		t.Errorf("newest run = %+v", newest)
	}
	if !newest.StartedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("StartedAt = %v, want %v", newest.StartedAt, base.Add(2*time.Minute))
	}
	if got[1].Directory != "/src/b" || got[1].ExitCode != 1 {
		t.Errorf("second run = %+v", got[1])
	}
	if got[0].ID <= got[1].ID {
		t.Errorf("IDs not newest first: %d, %d", got[0].ID, got[1].ID)
	}
}

func TestStore_RecentEmpty(t *testing.T) {
	store := openTestStore(t)

	got, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Recent() = %d runs, want 0", len(got))
	}

	got, err = store.Recent(context.Background(), 0)
	if err != nil || got != nil {
		t.Errorf("Recent(0) = %v, %v, want nil, nil", got, err)
	}
}

func TestOpen_ReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if _, err := store.Record(ctx, Run{StartedAt: time.Now(), Directory: ".", Model: "m"}); err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	store.Close()

	store, err = Open(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer store.Close()

	got, err := store.Recent(ctx, 5)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Recent() = %d runs, want 1", len(got))
	}
}
