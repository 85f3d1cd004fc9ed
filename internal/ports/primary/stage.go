package primary

import (
	"context"

	"github.com/example/warden/internal/models"
)

// StageCount pairs a pipeline stage with its current item count.
type StageCount struct {
	Stage models.Stage
	Count int
}

// ItemSummary is a read-side view of one record in a stage.
type ItemSummary struct {
	Name string
	Path string
}

// StageService is the read-only aggregation over the pipeline stages.
// Counts always reflect current storage state - stage membership is
// mutated by actors outside the core.
type StageService interface {
	Counts(ctx context.Context) ([]StageCount, error)
	List(ctx context.Context, stage models.Stage) ([]ItemSummary, error)
	NeedsActionCount(ctx context.Context) (int, error)
}
