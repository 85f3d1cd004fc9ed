// Package primary defines the primary ports (driving interfaces) for the application.
package primary

import (
	"context"

	"github.com/example/warden/internal/models"
)

// IngestOutcome describes what the ingest path did with one candidate.
type IngestOutcome string

const (
	IngestMaterialized IngestOutcome = "materialized"
	IngestDuplicate    IngestOutcome = "duplicate"
	IngestDryRun       IngestOutcome = "dry-run"
)

// IngestResult reports the handling of a single candidate.
type IngestResult struct {
	Outcome    IngestOutcome
	Identifier string
	Priority   models.Priority
	RecordPath string
}

// IngestService is the single per-candidate handling path shared by poll
// and push modes. Push and poll are behaviorally indistinguishable to the
// materializer behind this interface.
type IngestService interface {
	HandleCandidate(ctx context.Context, cand models.Candidate) (*IngestResult, error)
}
