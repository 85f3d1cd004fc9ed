package models

import "time"

// RunOutcome is the terminal (or in-flight) state of an orchestration run.
type RunOutcome string

const (
	OutcomeRunning   RunOutcome = "running"
	OutcomeCompleted RunOutcome = "completed"
	OutcomeExhausted RunOutcome = "exhausted"
)

// IterationState is the snapshot persisted after each orchestration-loop
// cycle: what was asked, what came back, and whether completion was seen.
type IterationState struct {
	RunID      string
	Iteration  int
	Prompt     string
	Output     string
	Completed  bool
	RecordedAt time.Time
}

// Run summarizes one orchestration-loop run. Iterations counts the agent
// invocations actually performed; EndedAt is nil while the run is live.
type Run struct {
	ID            string
	Prompt        string
	MaxIterations int
	Outcome       RunOutcome
	Iterations    int
	StartedAt     time.Time
	EndedAt       *time.Time
}
