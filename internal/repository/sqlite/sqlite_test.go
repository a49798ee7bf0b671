package sqlite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/CavaJ/ImagingInterview/internal/model"
)

// ========================================
// Test Setup Helpers
// ========================================

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func insertRun(t *testing.T, repo *RunRepository, id string, started time.Time) *model.Run {
	t.Helper()
	run := &model.Run{
		ID:        id,
		Root:      "/data/cctv",
		Action:    model.ActionMove,
		StartedAt: started,
		Records:   3,
	}
	if err := repo.Insert(run); err != nil {
		t.Fatalf("Failed to insert run: %v", err)
	}
	return run
}

// ========================================
// Database Tests
// ========================================

func TestDatabase_Connection(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file should exist")
	}
}

func TestDatabase_MigrationIsRepeatable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	for i := 0; i < 2; i++ {
		db, err := New(dbPath)
		if err != nil {
			t.Fatalf("Open %d failed: %v", i, err)
		}
		db.Close()
	}
}

// ========================================
// Run Repository Tests
// ========================================

func TestRunRepository_InsertAndFinish(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRunRepository(db)

	started := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	run := insertRun(t, repo, "run-1", started)

	got, err := repo.GetByID("run-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected run to exist")
	}
	if !got.FinishedAt.IsZero() {
		t.Error("Unfinished run should have no finish time")
	}
	if got.Action != model.ActionMove || got.Root != "/data/cctv" {
		t.Errorf("Unexpected run %+v", got)
	}

	run.FinishedAt = started.Add(90 * time.Second)
	run.Groups, run.Comparisons, run.Duplicates, run.Anomalies = 2, 1, 1, 1
	if err := repo.Finish(run); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	got, err = repo.GetByID("run-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Duplicates != 1 || got.Groups != 2 || got.Anomalies != 1 {
		t.Errorf("Counters not stored: %+v", got)
	}
	if got.Duration() != 90*time.Second {
		t.Errorf("Expected 90s duration, got %v", got.Duration())
	}
}

func TestRunRepository_GetByIDMissing(t *testing.T) {
	repo := NewRunRepository(setupTestDB(t))

	got, err := repo.GetByID("nope")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for missing run, got %+v", got)
	}
}

func TestRunRepository_FinishMissing(t *testing.T) {
	repo := NewRunRepository(setupTestDB(t))

	if err := repo.Finish(&model.Run{ID: "nope", FinishedAt: time.Now()}); err == nil {
		t.Error("Expected error when finishing unknown run")
	}
}

func TestRunRepository_ListNewestFirst(t *testing.T) {
	repo := NewRunRepository(setupTestDB(t))

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	insertRun(t, repo, "old", base)
	insertRun(t, repo, "new", base.Add(time.Hour))
	insertRun(t, repo, "mid", base.Add(time.Minute))

	runs, err := repo.List(2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "new" || runs[1].ID != "mid" {
		t.Errorf("Unexpected order: %+v", runs)
	}

	all, err := repo.List(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("Expected all 3 runs, got %d", len(all))
	}
}

// ========================================
// Event Repository Tests
// ========================================

func TestEventRepository_InsertAndList(t *testing.T) {
	db := setupTestDB(t)
	runs := NewRunRepository(db)
	events := NewEventRepository(db)
	insertRun(t, runs, "run-1", time.Now())

	now := time.Now().UTC().Truncate(time.Second)
	input := []model.Event{
		{Kind: model.EventCUIDetected, Time: now, RunID: "run-1", CameraID: "c1", Path: "/d/c1-1.png", Detail: "unreadable"},
		{Kind: model.EventDuplicateFound, Time: now, RunID: "run-1", CameraID: "c1", Path: "/d/c1-3.png", BasePath: "/d/c1-2.png", Tier: "low", Score: 12, Threshold: 500},
		{Kind: model.EventDuplicateFound, Time: now, RunID: "run-1", CameraID: "c1", Path: "/d/c1-4.png", BasePath: "/d/c1-2.png", Tier: "low", Threshold: 500},
	}
	for _, ev := range input {
		if _, err := events.Insert(ev); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := events.ListByRun("run-1")
	if err != nil {
		t.Fatalf("ListByRun failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(got))
	}
	if got[1].BasePath != "/d/c1-2.png" || got[1].Score != 12 || got[1].Kind != model.EventDuplicateFound {
		t.Errorf("Unexpected event %+v", got[1])
	}
	if !got[0].Time.Equal(now) {
		t.Errorf("Expected time %v, got %v", now, got[0].Time)
	}

	counts, err := events.CountByKind("run-1")
	if err != nil {
		t.Fatal(err)
	}
	if counts[model.EventDuplicateFound] != 2 || counts[model.EventCUIDetected] != 1 {
		t.Errorf("Unexpected counts %v", counts)
	}
}

func TestEventRepository_UnknownRunRejected(t *testing.T) {
	events := NewEventRepository(setupTestDB(t))

	_, err := events.Insert(model.Event{Kind: model.EventCUIDetected, Time: time.Now(), RunID: "ghost"})
	if err == nil {
		t.Error("Expected foreign key violation for unknown run")
	}
}
