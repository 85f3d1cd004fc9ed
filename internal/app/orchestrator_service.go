package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/warden/internal/core/loop"
	"github.com/example/warden/internal/models"
	"github.com/example/warden/internal/ports/primary"
	"github.com/example/warden/internal/ports/secondary"
)

// OrchestratorServiceImpl drives the external agent through the bounded
// persistent-retry loop. Completion predicates are evaluated before each
// invocation, so a run whose goal is already met performs zero
// invocations, and a run whose goal is never met performs exactly
// MaxIterations invocations before ending exhausted.
type OrchestratorServiceImpl struct {
	agent    secondary.AgentRunner
	stages   secondary.StageStore
	repo     secondary.IterationRepository
	reporter secondary.Reporter
}

// NewOrchestratorService creates the orchestrator service.
func NewOrchestratorService(agent secondary.AgentRunner, stages secondary.StageStore, repo secondary.IterationRepository, reporter secondary.Reporter) *OrchestratorServiceImpl {
	return &OrchestratorServiceImpl{
		agent:    agent,
		stages:   stages,
		repo:     repo,
		reporter: reporter,
	}
}

// RunLoop executes one orchestration run to a terminal outcome.
func (s *OrchestratorServiceImpl) RunLoop(ctx context.Context, req primary.RunLoopRequest) (*primary.RunLoopResult, error) {
	if req.Prompt == "" {
		return nil, fmt.Errorf("prompt is required")
	}
	if req.MaxIterations <= 0 {
		return nil, fmt.Errorf("max iterations must be positive")
	}
	if !req.CheckStage && !req.CheckToken {
		return nil, fmt.Errorf("at least one completion check is required")
	}

	cfg := loop.Config{
		CheckStage:    req.CheckStage,
		CheckToken:    req.CheckToken,
		Token:         req.Token,
		MaxIterations: req.MaxIterations,
	}

	runID := uuid.New().String()
	started := time.Now().UTC()
	if !req.DryRun {
		run := &models.Run{
			ID:            runID,
			Prompt:        req.Prompt,
			MaxIterations: req.MaxIterations,
			Outcome:       models.OutcomeRunning,
			StartedAt:     started,
		}
		if err := s.repo.CreateRun(ctx, run); err != nil {
			return nil, fmt.Errorf("failed to record run: %w", err)
		}
	}

	s.reporter.Infof("run %s started (max %d iterations)", runID, req.MaxIterations)

	iteration := 0
	priorOutput := ""
	outcome := models.OutcomeRunning

	for outcome == models.OutcomeRunning {
		if err := ctx.Err(); err != nil {
			s.finish(runID, outcome, iteration, req.DryRun)
			return nil, err
		}

		needsAction := 0
		if cfg.CheckStage {
			n, err := s.stages.CountIn(models.StageNeedsAction)
			if err != nil {
				s.reporter.Warnf("failed to count needs-action items: %v", err)
			} else {
				needsAction = n
			}
			if loop.StageSatisfied(cfg, needsAction) && err == nil {
				outcome = models.OutcomeCompleted
				s.reporter.Infof("needs-action stage empty, run complete")
				break
			}
		}

		if phase := loop.Next(cfg, iteration, false); phase == loop.PhaseExhausted {
			outcome = models.OutcomeExhausted
			s.reporter.Warnf("iteration limit reached (%d), run exhausted", req.MaxIterations)
			break
		}

		if !req.DryRun && !s.agent.Available() {
			outcome = models.OutcomeExhausted
			s.reporter.Errorf("agent binary not available, run exhausted")
			break
		}

		iteration++
		prompt := loop.BuildPrompt(cfg, req.Prompt, iteration, needsAction, priorOutput)

		if req.DryRun {
			s.reporter.Infof("[DRY RUN] iteration %d/%d would invoke agent", iteration, req.MaxIterations)
			priorOutput = ""
			continue
		}

		output := s.invoke(ctx, prompt, req.Timeout)
		completed := loop.OutputSatisfied(cfg, output)

		snap := &models.IterationState{
			RunID:      runID,
			Iteration:  iteration,
			Prompt:     prompt,
			Output:     output,
			Completed:  completed,
			RecordedAt: time.Now().UTC(),
		}
		if err := s.repo.RecordIteration(ctx, snap); err != nil {
			s.reporter.Warnf("failed to record iteration %d: %v", iteration, err)
		}
		priorOutput = output

		if completed {
			outcome = models.OutcomeCompleted
			s.reporter.Infof("completion token seen at iteration %d", iteration)
			break
		}

		if req.Backoff > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(req.Backoff):
			}
		}
	}

	s.finish(runID, outcome, iteration, req.DryRun)
	s.reporter.Infof("run %s ended: %s after %d iterations", runID, outcome, iteration)

	return &primary.RunLoopResult{
		RunID:      runID,
		Outcome:    outcome,
		Iterations: iteration,
	}, nil
}

// invoke performs one bounded agent call. Failures never abort the run:
// the error is folded into the output so the next prompt carries it as
// context, which is the whole point of a persistent-retry loop.
func (s *OrchestratorServiceImpl) invoke(ctx context.Context, prompt string, timeout time.Duration) string {
	callCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	output, err := s.agent.Run(callCtx, prompt, s.stages.Root())
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			s.reporter.Warnf("agent invocation timed out after %s", timeout)
			return output + "\n[timeout after " + timeout.String() + "]"
		}
		s.reporter.Warnf("agent invocation failed: %v", err)
		return output + "\n[error: " + err.Error() + "]"
	}
	return output
}

func (s *OrchestratorServiceImpl) finish(runID string, outcome models.RunOutcome, iterations int, dryRun bool) {
	if dryRun {
		return
	}
	// Run bookkeeping must survive caller cancellation.
	if err := s.repo.FinishRun(context.Background(), runID, outcome, iterations, time.Now().UTC()); err != nil {
		s.reporter.Warnf("failed to finish run %s: %v", runID, err)
	}
}

// History returns past runs, newest first.
func (s *OrchestratorServiceImpl) History(ctx context.Context, limit int) ([]*models.Run, error) {
	return s.repo.ListRuns(ctx, limit)
}

// Iterations returns the snapshots of one run in order.
func (s *OrchestratorServiceImpl) Iterations(ctx context.Context, runID string) ([]*models.IterationState, error) {
	return s.repo.ListIterations(ctx, runID)
}

// ResolveRun expands a run ID prefix, as printed by the history listing,
// to the full run ID. An exact match wins; a prefix must be unambiguous.
func (s *OrchestratorServiceImpl) ResolveRun(ctx context.Context, idOrPrefix string) (string, error) {
	if idOrPrefix == "" {
		return "", errors.New("run id is required")
	}
	runs, err := s.repo.ListRuns(ctx, 0)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, run := range runs {
		if run.ID == idOrPrefix {
			return run.ID, nil
		}
		if strings.HasPrefix(run.ID, idOrPrefix) {
			matches = append(matches, run.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no run matches %q", idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("run id %q is ambiguous (%d matches)", idOrPrefix, len(matches))
	}
}

// Ensure OrchestratorServiceImpl implements the interface
var _ primary.OrchestratorService = (*OrchestratorServiceImpl)(nil)
