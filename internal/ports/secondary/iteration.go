package secondary

import (
	"context"
	"time"

	"github.com/example/warden/internal/models"
)

// IterationRepository persists orchestration-loop runs and their
// per-iteration snapshots.
type IterationRepository interface {
	// CreateRun records a new run in the running state.
	CreateRun(ctx context.Context, run *models.Run) error

	// RecordIteration persists one iteration snapshot.
	RecordIteration(ctx context.Context, snap *models.IterationState) error

	// FinishRun seals a run with its outcome, total iteration count and
	// end time.
	FinishRun(ctx context.Context, runID string, outcome models.RunOutcome, iterations int, endedAt time.Time) error

	// GetRun returns a run by ID.
	GetRun(ctx context.Context, runID string) (*models.Run, error)

	// ListRuns returns runs newest first, up to limit (0 = all).
	ListRuns(ctx context.Context, limit int) ([]*models.Run, error)

	// ListIterations returns a run's snapshots in iteration order.
	ListIterations(ctx context.Context, runID string) ([]*models.IterationState, error)
}
