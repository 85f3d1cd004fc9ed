// Package agent contains the external task agent runner.
package agent

import (
	"context"
	"os/exec"

	"github.com/example/warden/internal/ports/secondary"
)

// DefaultBinary is the agent CLI invoked when none is configured.
const DefaultBinary = "claude"

// CLIRunner invokes the agent binary once per call with the prompt on
// the command line and the vault as working directory.
type CLIRunner struct {
	binary string
}

// NewCLIRunner creates a runner for the given agent binary. Empty means
// DefaultBinary.
func NewCLIRunner(binary string) *CLIRunner {
	if binary == "" {
		binary = DefaultBinary
	}
	return &CLIRunner{binary: binary}
}

// Available reports whether the agent binary resolves on PATH.
func (r *CLIRunner) Available() bool {
	_, err := exec.LookPath(r.binary)
	return err == nil
}

// Run executes one agent invocation. The context deadline bounds the
// call; on timeout or failure the partial combined output is returned so
// the loop can still inspect it.
func (r *CLIRunner) Run(ctx context.Context, prompt, workdir string) (string, error) {
	cmd := exec.CommandContext(ctx, r.binary, "-p", prompt)
	cmd.Dir = workdir

	output, err := cmd.CombinedOutput()
	return string(output), err
}

// Ensure CLIRunner implements the interface
var _ secondary.AgentRunner = (*CLIRunner)(nil)
