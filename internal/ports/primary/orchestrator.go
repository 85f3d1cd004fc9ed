package primary

import (
	"context"
	"time"

	"github.com/example/warden/internal/models"
)

// RunLoopRequest configures one orchestration-loop run.
type RunLoopRequest struct {
	Prompt        string
	MaxIterations int
	Timeout       time.Duration // per agent invocation
	Backoff       time.Duration // pause between iterations
	Token         string
	CheckStage    bool
	CheckToken    bool
	DryRun        bool
}

// RunLoopResult summarizes a finished run.
type RunLoopResult struct {
	RunID      string
	Outcome    models.RunOutcome
	Iterations int
}

// OrchestratorService drives the external agent through the bounded
// persistent-retry loop.
type OrchestratorService interface {
	RunLoop(ctx context.Context, req RunLoopRequest) (*RunLoopResult, error)
	History(ctx context.Context, limit int) ([]*models.Run, error)
	Iterations(ctx context.Context, runID string) ([]*models.IterationState, error)
	// ResolveRun expands a full run ID or unique prefix to the full ID.
	ResolveRun(ctx context.Context, idOrPrefix string) (string, error)
}
