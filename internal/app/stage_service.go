package app

import (
	"context"
	"fmt"

	"github.com/example/warden/internal/models"
	"github.com/example/warden/internal/ports/primary"
	"github.com/example/warden/internal/ports/secondary"
)

// StageServiceImpl is the read side of the pipeline: counts and listings
// derived from current storage state, never cached.
type StageServiceImpl struct {
	stages secondary.StageStore
}

// NewStageService creates the stage service.
func NewStageService(stages secondary.StageStore) *StageServiceImpl {
	return &StageServiceImpl{stages: stages}
}

// Counts returns the item count per stage, in pipeline order.
func (s *StageServiceImpl) Counts(ctx context.Context) ([]primary.StageCount, error) {
	counts := make([]primary.StageCount, 0, len(models.Stages))
	for _, stage := range models.Stages {
		n, err := s.stages.CountIn(stage)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", stage, err)
		}
		counts = append(counts, primary.StageCount{Stage: stage, Count: n})
	}
	return counts, nil
}

// List returns the records currently in a stage.
func (s *StageServiceImpl) List(ctx context.Context, stage models.Stage) ([]primary.ItemSummary, error) {
	refs, err := s.stages.ListIn(stage)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", stage, err)
	}
	items := make([]primary.ItemSummary, 0, len(refs))
	for _, ref := range refs {
		items = append(items, primary.ItemSummary{Name: ref.Name, Path: ref.Path})
	}
	return items, nil
}

// NeedsActionCount returns the count backing the loop's completion
// predicate.
func (s *StageServiceImpl) NeedsActionCount(ctx context.Context) (int, error) {
	return s.stages.CountIn(models.StageNeedsAction)
}

// Ensure StageServiceImpl implements the interface
var _ primary.StageService = (*StageServiceImpl)(nil)
