package ledger_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"reelpreview/internal/ledger"
	"reelpreview/internal/testsupport"
)

func TestRunLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)
	ctx := context.Background()

	runID, err := store.BeginRun(ctx, "previews", cfg.Paths.LibraryDir)
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected run id")
	}

	entries := []ledger.Entry{
		{Kind: "preview", Source: "/lib/a.mp4", Target: "/lib/a_preview.webp", Outcome: "generated", Elapsed: 1500 * time.Millisecond},
		{Kind: "preview", Source: "/lib/b.mp4", Target: "/lib/b_preview.webp", Outcome: "skipped", Reason: "target exists"},
		{Kind: "preview", Source: "/lib/c.mp4", Target: "/lib/c_preview.webp", Outcome: "failed", FailureKind: "probe", Error: "probe failed"},
	}
	for _, entry := range entries {
		if err := store.Record(ctx, runID, entry); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	if err := store.FinishRun(ctx, runID, ledger.Totals{Generated: 1, Skipped: 1, Failed: 1}); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	runs, err := store.Runs(ctx, 10)
	if err != nil {
		t.Fatalf("Runs failed: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != runID {
		t.Fatalf("unexpected runs %+v", runs)
	}
	if !runs[0].Finished() || runs[0].Totals != (ledger.Totals{Generated: 1, Skipped: 1, Failed: 1}) {
		t.Fatalf("unexpected run totals %+v", runs[0])
	}

	recorded, err := store.RunResults(ctx, runID)
	if err != nil {
		t.Fatalf("RunResults failed: %v", err)
	}
	if len(recorded) != 3 {
		t.Fatalf("expected 3 results, got %d", len(recorded))
	}
	if recorded[0].Source != "/lib/a.mp4" || recorded[0].Elapsed != 1500*time.Millisecond {
		t.Fatalf("unexpected first result %+v", recorded[0])
	}
	if recorded[1].Reason != "target exists" || recorded[2].FailureKind != "probe" {
		t.Fatalf("unexpected optional fields %+v / %+v", recorded[1], recorded[2])
	}

	failed, err := store.RecentResults(ctx, 10, "failed")
	if err != nil {
		t.Fatalf("RecentResults failed: %v", err)
	}
	if len(failed) != 1 || failed[0].Source != "/lib/c.mp4" {
		t.Fatalf("unexpected failed results %+v", failed)
	}

	recent, err := store.RecentResults(ctx, 2, "")
	if err != nil {
		t.Fatalf("RecentResults failed: %v", err)
	}
	if len(recent) != 2 || recent[0].Source != "/lib/c.mp4" {
		t.Fatalf("expected newest first, got %+v", recent)
	}
}

func TestFinishUnknownRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)

	err := store.FinishRun(context.Background(), "missing", ledger.Totals{})
	if !errors.Is(err, ledger.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestRecordRequiresRunID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)

	if err := store.Record(context.Background(), "", ledger.Entry{Kind: "preview", Source: "x", Outcome: "generated"}); err == nil {
		t.Fatal("expected error without run id")
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := ledger.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := store.BeginRun(context.Background(), "statics", "/lib"); err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := testsupport.MustOpenLedger(t, cfg)
	runs, err := reopened.Runs(context.Background(), 0)
	if err != nil {
		t.Fatalf("Runs failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Kind != "statics" || runs[0].Finished() {
		t.Fatalf("unexpected runs after reopen %+v", runs)
	}
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	if _, err := db.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatalf("set user_version: %v", err)
	}
	_ = db.Close()

	if _, err := ledger.OpenPath(path); !errors.Is(err, ledger.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
