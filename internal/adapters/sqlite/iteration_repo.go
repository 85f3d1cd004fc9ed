// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/warden/internal/models"
	"github.com/example/warden/internal/ports/secondary"
)

// IterationRepository implements secondary.IterationRepository with SQLite.
type IterationRepository struct {
	db *sql.DB
}

// NewIterationRepository creates a new SQLite iteration repository.
func NewIterationRepository(db *sql.DB) *IterationRepository {
	return &IterationRepository{db: db}
}

// CreateRun persists a new run in the running state.
func (r *IterationRepository) CreateRun(ctx context.Context, run *models.Run) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO runs (id, prompt, max_iterations, outcome, iterations, started_at) VALUES (?, ?, ?, ?, 0, ?)",
		run.ID, run.Prompt, run.MaxIterations, string(models.OutcomeRunning), run.StartedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// RecordIteration persists one iteration snapshot.
func (r *IterationRepository) RecordIteration(ctx context.Context, snap *models.IterationState) error {
	completed := 0
	if snap.Completed {
		completed = 1
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO iterations (run_id, iteration, prompt, output, completed, recorded_at) VALUES (?, ?, ?, ?, ?, ?)",
		snap.RunID, snap.Iteration, snap.Prompt, snap.Output, completed, snap.RecordedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record iteration: %w", err)
	}
	return nil
}

// FinishRun seals a run with its outcome, iteration total and end time.
func (r *IterationRepository) FinishRun(ctx context.Context, runID string, outcome models.RunOutcome, iterations int, endedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE runs SET outcome = ?, iterations = ?, ended_at = ? WHERE id = ?",
		string(outcome), iterations, endedAt.UTC(), runID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}

// GetRun retrieves a run by its ID.
func (r *IterationRepository) GetRun(ctx context.Context, runID string) (*models.Run, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, prompt, max_iterations, outcome, iterations, started_at, ended_at FROM runs WHERE id = ?",
		runID,
	)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns runs newest first, up to limit (0 = all).
func (r *IterationRepository) ListRuns(ctx context.Context, limit int) ([]*models.Run, error) {
	query := "SELECT id, prompt, max_iterations, outcome, iterations, started_at, ended_at FROM runs ORDER BY started_at DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ListIterations returns a run's snapshots in iteration order.
func (r *IterationRepository) ListIterations(ctx context.Context, runID string) ([]*models.IterationState, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT run_id, iteration, prompt, output, completed, recorded_at FROM iterations WHERE run_id = ? ORDER BY iteration",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list iterations: %w", err)
	}
	defer rows.Close()

	var snaps []*models.IterationState
	for rows.Next() {
		var (
			snap       models.IterationState
			completed  int
			recordedAt time.Time
		)
		if err := rows.Scan(&snap.RunID, &snap.Iteration, &snap.Prompt, &snap.Output, &completed, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan iteration: %w", err)
		}
		snap.Completed = completed != 0
		snap.RecordedAt = recordedAt
		snaps = append(snaps, &snap)
	}
	return snaps, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*models.Run, error) {
	var (
		run       models.Run
		outcome   string
		startedAt time.Time
		endedAt   sql.NullTime
	)
	if err := row.Scan(&run.ID, &run.Prompt, &run.MaxIterations, &outcome, &run.Iterations, &startedAt, &endedAt); err != nil {
		return nil, err
	}
	run.Outcome = models.RunOutcome(outcome)
	run.StartedAt = startedAt
	if endedAt.Valid {
		t := endedAt.Time
		run.EndedAt = &t
	}
	return &run, nil
}

// Ensure IterationRepository implements the interface
var _ secondary.IterationRepository = (*IterationRepository)(nil)
