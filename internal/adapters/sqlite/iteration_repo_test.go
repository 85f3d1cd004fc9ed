// Package sqlite_test contains integration tests for SQLite repositories.
//
// Tests run against db.GetSchemaSQL() so the test schema never drifts
// from the authoritative schema in internal/db/schema.go.
package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/warden/internal/adapters/sqlite"
	"github.com/example/warden/internal/db"
	"github.com/example/warden/internal/models"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

func seedRun(t *testing.T, repo *sqlite.IterationRepository, id string, started time.Time) *models.Run {
	t.Helper()
	run := &models.Run{
		ID:            id,
		Prompt:        "Process all files",
		MaxIterations: 10,
		StartedAt:     started,
	}
	if err := repo.CreateRun(context.Background(), run); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	return run
}

func TestCreateAndGetRun(t *testing.T) {
	repo := sqlite.NewIterationRepository(setupTestDB(t))
	started := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	seedRun(t, repo, "run-001", started)

	got, err := repo.GetRun(context.Background(), "run-001")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got.Prompt != "Process all files" {
		t.Errorf("Prompt = %q", got.Prompt)
	}
	if got.Outcome != models.OutcomeRunning {
		t.Errorf("Outcome = %s, want running", got.Outcome)
	}
	if got.EndedAt != nil {
		t.Error("EndedAt should be nil for a live run")
	}
}

func TestGetRunNotFound(t *testing.T) {
	repo := sqlite.NewIterationRepository(setupTestDB(t))
	if _, err := repo.GetRun(context.Background(), "nope"); err == nil {
		t.Error("GetRun on missing run should error")
	}
}

func TestFinishRun(t *testing.T) {
	repo := sqlite.NewIterationRepository(setupTestDB(t))
	seedRun(t, repo, "run-001", time.Now())

	ended := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	if err := repo.FinishRun(context.Background(), "run-001", models.OutcomeExhausted, 10, ended); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	got, err := repo.GetRun(context.Background(), "run-001")
	if err != nil {
		t.Fatal(err)
	}
	if got.Outcome != models.OutcomeExhausted {
		t.Errorf("Outcome = %s, want exhausted", got.Outcome)
	}
	if got.Iterations != 10 {
		t.Errorf("Iterations = %d, want 10", got.Iterations)
	}
	if got.EndedAt == nil {
		t.Error("EndedAt should be set after FinishRun")
	}

	if err := repo.FinishRun(context.Background(), "missing", models.OutcomeCompleted, 1, ended); err == nil {
		t.Error("FinishRun on missing run should error")
	}
}

func TestRecordAndListIterations(t *testing.T) {
	repo := sqlite.NewIterationRepository(setupTestDB(t))
	seedRun(t, repo, "run-001", time.Now())

	for i := 1; i <= 3; i++ {
		snap := &models.IterationState{
			RunID:      "run-001",
			Iteration:  i,
			Prompt:     "iterate",
			Output:     "output",
			Completed:  i == 3,
			RecordedAt: time.Now(),
		}
		if err := repo.RecordIteration(context.Background(), snap); err != nil {
			t.Fatalf("RecordIteration %d failed: %v", i, err)
		}
	}

	snaps, err := repo.ListIterations(context.Background(), "run-001")
	if err != nil {
		t.Fatalf("ListIterations failed: %v", err)
	}
	if len(snaps) != 3 {
		t.Fatalf("got %d snapshots, want 3", len(snaps))
	}
	for i, snap := range snaps {
		if snap.Iteration != i+1 {
			t.Errorf("snapshot %d has iteration %d", i, snap.Iteration)
		}
	}
	if !snaps[2].Completed {
		t.Error("final snapshot should carry the completion flag")
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	repo := sqlite.NewIterationRepository(setupTestDB(t))
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	seedRun(t, repo, "run-old", base)
	seedRun(t, repo, "run-new", base.Add(time.Hour))

	runs, err := repo.ListRuns(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].ID != "run-new" {
		t.Errorf("first run = %s, want run-new", runs[0].ID)
	}

	limited, err := repo.ListRuns(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("limited list has %d runs, want 1", len(limited))
	}
}
