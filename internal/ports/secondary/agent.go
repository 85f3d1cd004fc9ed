package secondary

import "context"

// AgentRunner invokes the external task agent. The agent is an opaque
// black box: one request/response call taking a text prompt and a
// working directory, returning captured text output.
type AgentRunner interface {
	// Available reports whether the agent binary can be invoked at all.
	Available() bool

	// Run invokes the agent with the prompt in the given working
	// directory and returns the combined output. The caller bounds the
	// call with a context deadline; on timeout or failure the partial
	// output is still returned alongside the error.
	Run(ctx context.Context, prompt, workdir string) (string, error)
}
