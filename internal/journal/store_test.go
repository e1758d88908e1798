package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRecordAndReadBack(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		run := Run{
			ID:           uuid.NewString(),
			StartedAt:    base.Add(time.Duration(i) * time.Hour),
			FinishedAt:   base.Add(time.Duration(i)*time.Hour + time.Minute),
			Source:       "/src",
			Dest:         "/dest",
			SeriesSynced: i,
			FilesCopied:  i * 10,
			BytesCopied:  int64(i) * 1024,
			SoftFailures: i,
			DryRun:       i == 0,
		}
		if err := store.RecordRun(ctx, run); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	runs, err := store.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if !runs[0].StartedAt.After(runs[1].StartedAt) {
		t.Fatalf("runs not newest-first: %v then %v", runs[0].StartedAt, runs[1].StartedAt)
	}
	if runs[0].FilesCopied != 20 || runs[0].BytesCopied != 2048 {
		t.Fatalf("counters lost: %+v", runs[0])
	}
}

func TestRecentRunsEmptyStore(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()
	runs, err := store.RecentRuns(context.Background(), 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected no runs, got %d", len(runs))
	}
}
