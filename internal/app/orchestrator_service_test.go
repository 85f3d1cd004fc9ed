package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/example/warden/internal/core/loop"
	"github.com/example/warden/internal/models"
	"github.com/example/warden/internal/ports/primary"
)

// Mock implementations

type mockAgent struct {
	available bool
	outputs   []string
	err       error
	prompts   []string
}

func (m *mockAgent) Available() bool { return m.available }

func (m *mockAgent) Run(ctx context.Context, prompt, workdir string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	i := len(m.prompts) - 1
	out := "working"
	if i < len(m.outputs) {
		out = m.outputs[i]
	}
	return out, m.err
}

type mockIterationRepo struct {
	runs      map[string]*models.Run
	iters     []*models.IterationState
	finished  map[string]models.RunOutcome
	createErr error
	recordErr error
}

func newMockIterationRepo() *mockIterationRepo {
	return &mockIterationRepo{
		runs:     make(map[string]*models.Run),
		finished: make(map[string]models.RunOutcome),
	}
}

func (m *mockIterationRepo) CreateRun(ctx context.Context, run *models.Run) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.runs[run.ID] = run
	return nil
}

func (m *mockIterationRepo) RecordIteration(ctx context.Context, snap *models.IterationState) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.iters = append(m.iters, snap)
	return nil
}

func (m *mockIterationRepo) FinishRun(ctx context.Context, runID string, outcome models.RunOutcome, iterations int, endedAt time.Time) error {
	m.finished[runID] = outcome
	return nil
}

func (m *mockIterationRepo) GetRun(ctx context.Context, runID string) (*models.Run, error) {
	run, ok := m.runs[runID]
	if !ok {
		return nil, errors.New("run not found")
	}
	return run, nil
}

func (m *mockIterationRepo) ListRuns(ctx context.Context, limit int) ([]*models.Run, error) {
	var runs []*models.Run
	for _, r := range m.runs {
		runs = append(runs, r)
	}
	return runs, nil
}

func (m *mockIterationRepo) ListIterations(ctx context.Context, runID string) ([]*models.IterationState, error) {
	var out []*models.IterationState
	for _, it := range m.iters {
		if it.RunID == runID {
			out = append(out, it)
		}
	}
	return out, nil
}

func tokenRequest() primary.RunLoopRequest {
	return primary.RunLoopRequest{
		Prompt:        "process the inbox",
		MaxIterations: 5,
		Token:         "TASK_COMPLETE",
		CheckToken:    true,
	}
}

// Tests

func TestRunLoop_ZeroInvocationsWhenStageAlreadyEmpty(t *testing.T) {
	agent := &mockAgent{available: true}
	stages := &mockStageStore{counts: map[models.Stage]int{models.StageNeedsAction: 0}}
	repo := newMockIterationRepo()
	svc := NewOrchestratorService(agent, stages, repo, &testReporter{})

	res, err := svc.RunLoop(context.Background(), primary.RunLoopRequest{
		Prompt:        "process the inbox",
		MaxIterations: 5,
		CheckStage:    true,
	})
	if err != nil {
		t.Fatalf("RunLoop failed: %v", err)
	}
	if res.Outcome != models.OutcomeCompleted {
		t.Errorf("expected completed, got %s", res.Outcome)
	}
	if res.Iterations != 0 {
		t.Errorf("expected 0 iterations, got %d", res.Iterations)
	}
	if len(agent.prompts) != 0 {
		t.Errorf("expected no agent invocations, got %d", len(agent.prompts))
	}
}

func TestRunLoop_ExhaustsAfterExactlyMaxInvocations(t *testing.T) {
	agent := &mockAgent{available: true}
	stages := &mockStageStore{counts: map[models.Stage]int{models.StageNeedsAction: 3}}
	repo := newMockIterationRepo()
	svc := NewOrchestratorService(agent, stages, repo, &testReporter{})

	res, err := svc.RunLoop(context.Background(), primary.RunLoopRequest{
		Prompt:        "process the inbox",
		MaxIterations: 5,
		CheckStage:    true,
	})
	if err != nil {
		t.Fatalf("RunLoop failed: %v", err)
	}
	if res.Outcome != models.OutcomeExhausted {
		t.Errorf("expected exhausted, got %s", res.Outcome)
	}
	if res.Iterations != 5 {
		t.Errorf("expected 5 iterations, got %d", res.Iterations)
	}
	if len(agent.prompts) != 5 {
		t.Errorf("expected exactly 5 invocations, got %d", len(agent.prompts))
	}
	if len(repo.iters) != 5 {
		t.Errorf("expected 5 persisted snapshots, got %d", len(repo.iters))
	}
	if repo.finished[res.RunID] != models.OutcomeExhausted {
		t.Errorf("expected run sealed as exhausted, got %s", repo.finished[res.RunID])
	}
}

func TestRunLoop_CompletesOnToken(t *testing.T) {
	agent := &mockAgent{
		available: true,
		outputs:   []string{"still working", "done. " + loop.TokenMarker("TASK_COMPLETE")},
	}
	repo := newMockIterationRepo()
	svc := NewOrchestratorService(agent, &mockStageStore{}, repo, &testReporter{})

	res, err := svc.RunLoop(context.Background(), tokenRequest())
	if err != nil {
		t.Fatalf("RunLoop failed: %v", err)
	}
	if res.Outcome != models.OutcomeCompleted {
		t.Errorf("expected completed, got %s", res.Outcome)
	}
	if res.Iterations != 2 {
		t.Errorf("expected 2 iterations, got %d", res.Iterations)
	}
	if !repo.iters[1].Completed {
		t.Error("expected final snapshot marked completed")
	}
	if repo.finished[res.RunID] != models.OutcomeCompleted {
		t.Errorf("expected run sealed as completed, got %s", repo.finished[res.RunID])
	}
}

func TestRunLoop_BareTokenWithoutMarkerDoesNotComplete(t *testing.T) {
	agent := &mockAgent{
		available: true,
		outputs:   []string{"I will emit TASK_COMPLETE when done"},
	}
	repo := newMockIterationRepo()
	svc := NewOrchestratorService(agent, &mockStageStore{}, repo, &testReporter{})

	req := tokenRequest()
	req.MaxIterations = 1
	res, err := svc.RunLoop(context.Background(), req)
	if err != nil {
		t.Fatalf("RunLoop failed: %v", err)
	}
	if res.Outcome != models.OutcomeExhausted {
		t.Errorf("bare token must not complete the run, got %s", res.Outcome)
	}
}

func TestRunLoop_AgentUnavailable(t *testing.T) {
	agent := &mockAgent{available: false}
	repo := newMockIterationRepo()
	svc := NewOrchestratorService(agent, &mockStageStore{}, repo, &testReporter{})

	res, err := svc.RunLoop(context.Background(), tokenRequest())
	if err != nil {
		t.Fatalf("RunLoop failed: %v", err)
	}
	if res.Outcome != models.OutcomeExhausted {
		t.Errorf("expected exhausted, got %s", res.Outcome)
	}
	if res.Iterations != 0 || len(agent.prompts) != 0 {
		t.Error("unavailable agent must never be invoked")
	}
}

func TestRunLoop_DryRun(t *testing.T) {
	agent := &mockAgent{available: true}
	repo := newMockIterationRepo()
	svc := NewOrchestratorService(agent, &mockStageStore{}, repo, &testReporter{})

	req := tokenRequest()
	req.DryRun = true
	res, err := svc.RunLoop(context.Background(), req)
	if err != nil {
		t.Fatalf("RunLoop failed: %v", err)
	}
	if res.Outcome != models.OutcomeExhausted {
		t.Errorf("expected exhausted, got %s", res.Outcome)
	}
	if len(agent.prompts) != 0 {
		t.Error("dry run must not invoke the agent")
	}
	if len(repo.runs) != 0 || len(repo.iters) != 0 {
		t.Error("dry run must not persist anything")
	}
}

func TestRunLoop_AgentErrorFoldedIntoOutput(t *testing.T) {
	agent := &mockAgent{available: true, err: errors.New("connection refused")}
	repo := newMockIterationRepo()
	svc := NewOrchestratorService(agent, &mockStageStore{}, repo, &testReporter{})

	req := tokenRequest()
	req.MaxIterations = 2
	res, err := svc.RunLoop(context.Background(), req)
	if err != nil {
		t.Fatalf("RunLoop failed: %v", err)
	}
	if res.Outcome != models.OutcomeExhausted {
		t.Errorf("expected exhausted, got %s", res.Outcome)
	}
	if len(repo.iters) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(repo.iters))
	}
	if !strings.Contains(repo.iters[0].Output, "[error: connection refused]") {
		t.Errorf("expected error folded into output, got %q", repo.iters[0].Output)
	}
}

func TestRunLoop_PromptCarriesPriorOutput(t *testing.T) {
	agent := &mockAgent{available: true, outputs: []string{"moved two items to Done"}}
	repo := newMockIterationRepo()
	svc := NewOrchestratorService(agent, &mockStageStore{}, repo, &testReporter{})

	req := tokenRequest()
	req.MaxIterations = 2
	if _, err := svc.RunLoop(context.Background(), req); err != nil {
		t.Fatalf("RunLoop failed: %v", err)
	}
	if len(agent.prompts) != 2 {
		t.Fatalf("expected 2 invocations, got %d", len(agent.prompts))
	}
	if !strings.Contains(agent.prompts[1], "moved two items to Done") {
		t.Error("expected second prompt to carry first output")
	}
	if !strings.Contains(agent.prompts[0], "iteration 1/2") {
		t.Errorf("expected iteration counter in prompt, got %q", agent.prompts[0])
	}
}

func TestRunLoop_Validation(t *testing.T) {
	svc := NewOrchestratorService(&mockAgent{available: true}, &mockStageStore{}, newMockIterationRepo(), &testReporter{})

	cases := []primary.RunLoopRequest{
		{MaxIterations: 5, CheckToken: true, Token: "T"},
		{Prompt: "p", CheckToken: true, Token: "T"},
		{Prompt: "p", MaxIterations: 5},
	}
	for i, req := range cases {
		if _, err := svc.RunLoop(context.Background(), req); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestRunLoop_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewOrchestratorService(&mockAgent{available: true}, &mockStageStore{}, newMockIterationRepo(), &testReporter{})
	if _, err := svc.RunLoop(ctx, tokenRequest()); err == nil {
		t.Fatal("expected context error")
	}
}

func TestResolveRun(t *testing.T) {
	repo := newMockIterationRepo()
	for _, id := range []string{
		"aaaa1111-0000-0000-0000-000000000001",
		"aaaa2222-0000-0000-0000-000000000002",
		"bbbb3333-0000-0000-0000-000000000003",
	} {
		repo.runs[id] = &models.Run{ID: id}
	}
	svc := NewOrchestratorService(&mockAgent{available: true}, &mockStageStore{}, repo, &testReporter{})

	// Short prefix as printed by the history listing.
	got, err := svc.ResolveRun(context.Background(), "bbbb3333")
	if err != nil {
		t.Fatalf("ResolveRun failed: %v", err)
	}
	if got != "bbbb3333-0000-0000-0000-000000000003" {
		t.Errorf("ResolveRun = %q, want full run ID", got)
	}

	full := "aaaa1111-0000-0000-0000-000000000001"
	if got, err := svc.ResolveRun(context.Background(), full); err != nil || got != full {
		t.Errorf("ResolveRun(%q) = %q, %v, want exact match", full, got, err)
	}

	if _, err := svc.ResolveRun(context.Background(), "aaaa"); err == nil {
		t.Error("expected error for ambiguous prefix")
	}
	if _, err := svc.ResolveRun(context.Background(), "ffff"); err == nil {
		t.Error("expected error for unknown prefix")
	}
	if _, err := svc.ResolveRun(context.Background(), ""); err == nil {
		t.Error("expected error for empty id")
	}
}
