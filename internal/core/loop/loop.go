// Package loop contains the pure state machine for the persistent-retry
// orchestration loop. This is part of the Functional Core - no I/O, only
// pure functions; the app layer owns clocks, agents, and persistence.
package loop

import (
	"fmt"
	"strings"
)

// Phase is the loop's position in its state machine.
type Phase string

const (
	PhaseRunning   Phase = "running"
	PhaseCompleted Phase = "completed"
	PhaseExhausted Phase = "exhausted"
)

// Config captures the completion rules for one run. At least one of
// CheckStage/CheckToken should be set; with both set either satisfies
// completion.
type Config struct {
	CheckStage    bool   // complete when the needs-action stage is empty
	CheckToken    bool   // complete when the token marker appears in output
	Token         string // completion token, e.g. "TASK_COMPLETE"
	MaxIterations int
}

// maxPriorOutput bounds how much of the previous agent output is carried
// into the next prompt.
const maxPriorOutput = 1000

// TokenMarker returns the exact marker the agent must emit to signal
// completion.
func TokenMarker(token string) string {
	return "<promise>" + token + "</promise>"
}

// StageSatisfied reports whether the state-based completion predicate
// holds for the given needs-action count.
func StageSatisfied(cfg Config, needsAction int) bool {
	return cfg.CheckStage && needsAction == 0
}

// OutputSatisfied reports whether the captured agent output contains the
// completion token marker.
func OutputSatisfied(cfg Config, output string) bool {
	return cfg.CheckToken && cfg.Token != "" && strings.Contains(output, TokenMarker(cfg.Token))
}

// Next decides the transition taken before an iteration is attempted.
// satisfied is the pre-invocation predicate result; iteration is the
// number of invocations already performed.
func Next(cfg Config, iteration int, satisfied bool) Phase {
	if satisfied {
		return PhaseCompleted
	}
	if iteration >= cfg.MaxIterations {
		return PhaseExhausted
	}
	return PhaseRunning
}

// BuildPrompt assembles the per-iteration prompt: the original
// instruction plus live context and the completion contract.
func BuildPrompt(cfg Config, base string, iteration, needsAction int, priorOutput string) string {
	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n\n---\n")
	fmt.Fprintf(&b, "CONTEXT (iteration %d/%d):\n", iteration, cfg.MaxIterations)
	fmt.Fprintf(&b, "- Files remaining in /Needs_Action: %d\n", needsAction)
	prior := TruncateOutput(priorOutput, maxPriorOutput)
	if prior == "" {
		prior = "none"
	}
	fmt.Fprintf(&b, "- Previous output: %s\n", prior)
	if cfg.CheckToken && cfg.Token != "" {
		fmt.Fprintf(&b, "\nContinue processing. When the task is complete, output: %s\n", TokenMarker(cfg.Token))
	} else {
		b.WriteString("\nContinue processing.\n")
	}
	return b.String()
}

// TruncateOutput keeps the tail of s, capped at max bytes. The tail is
// kept rather than the head because completion signals and final errors
// appear at the end of agent output.
func TruncateOutput(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[len(s)-max:]
}
