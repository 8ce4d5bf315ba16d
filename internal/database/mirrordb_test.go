package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

// openTestDB opens a MirrorDB in a temporary directory.
func openTestDB(t *testing.T) *MirrorDB {
	t.Helper()
	mdb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		if err := mdb.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return mdb
}

func testRun(started time.Time) *RunRecord {
	return &RunRecord{
		ID:              uuid.NewString(),
		StartedAt:       started,
		FinishedAt:      started.Add(90 * time.Second),
		OutputDir:       "canvas_output",
		Courses:         2,
		Modules:         5,
		Items:           31,
		FilesDownloaded: 9,
		BytesDownloaded: 1 << 20,
		Errors:          1,
	}
}

func TestRecordRunAndListRuns(t *testing.T) {
	t.Parallel()

	mdb := openTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := testRun(base)
	second := testRun(base.Add(time.Hour))

	if err := mdb.RecordRun(ctx, first, nil); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}
	if err := mdb.RecordRun(ctx, second, nil); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	runs, err := mdb.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}

	// Newest first.
	if runs[0].ID != second.ID {
		t.Errorf("expected newest run first, got %s", runs[0].ID)
	}

	got := runs[1]
	if got.Courses != 2 || got.Modules != 5 || got.Items != 31 ||
		got.FilesDownloaded != 9 || got.BytesDownloaded != 1<<20 || got.Errors != 1 {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if got.OutputDir != "canvas_output" {
		t.Errorf("unexpected output dir %q", got.OutputDir)
	}
}

func TestListRunsLimit(t *testing.T) {
	t.Parallel()

	mdb := openTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if err := mdb.RecordRun(ctx, testRun(base.Add(time.Duration(i)*time.Hour)), nil); err != nil {
			t.Fatalf("RecordRun failed: %v", err)
		}
	}

	runs, err := mdb.ListRuns(ctx, 3)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 3 {
		t.Errorf("expected 3 runs with limit, got %d", len(runs))
	}
}

func TestListDownloads(t *testing.T) {
	t.Parallel()

	mdb := openTestDB(t)
	ctx := context.Background()

	run := testRun(time.Now().UTC())
	files := []FileRecord{
		{FileID: 42, LocalPath: "CS101/Week 1/_files/slides.pdf", Size: 1024},
		{FileID: 43, LocalPath: "CS101/Week 1/_files/notes.pdf", Size: 2048},
	}

	if err := mdb.RecordRun(ctx, run, files); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	got, err := mdb.ListDownloads(ctx, run.ID)
	if err != nil {
		t.Fatalf("ListDownloads failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 downloads, got %d", len(got))
	}
	if got[0].FileID != 42 || got[0].LocalPath != "CS101/Week 1/_files/slides.pdf" || got[0].Size != 1024 {
		t.Errorf("unexpected record %+v", got[0])
	}
	if got[0].RunID != run.ID {
		t.Errorf("run id not stored: %+v", got[0])
	}

	t.Run("unknown run id returns empty", func(t *testing.T) {
		t.Parallel()
		got, err := mdb.ListDownloads(ctx, "no-such-run")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no downloads, got %d", len(got))
		}
	})
}

func TestOpenWithoutCreate(t *testing.T) {
	t.Parallel()

	t.Run("missing database returns sentinel", func(t *testing.T) {
		t.Parallel()

		opts := Options{CreateIfNotExists: false, EnableWAL: false}
		_, err := Open(t.TempDir(), opts)
		if err == nil {
			t.Fatal("expected error opening missing database without create")
		}
		if !errors.Is(err, ErrDatabaseNotFound) {
			t.Errorf("expected ErrDatabaseNotFound, got %v", err)
		}
	})

	t.Run("existing database opens without create", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		db, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("unexpected error creating database: %v", err)
		}
		if err := db.Close(); err != nil {
			t.Fatal(err)
		}

		db, err = Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("unexpected error reopening database: %v", err)
		}
		defer db.Close()

		runs, err := db.ListRuns(context.Background(), 10)
		if err != nil {
			t.Fatalf("ListRuns() error = %v", err)
		}
		if len(runs) != 0 {
			t.Errorf("expected empty history, got %d runs", len(runs))
		}
	})
}
