package secondary

// ConsoleManager drives the tmux observation session used by
// `warden console`.
type ConsoleManager interface {
	// SessionExists checks if a tmux session with this name exists.
	SessionExists(name string) bool

	// KillSession terminates a tmux session.
	KillSession(name string) error

	// Create builds a detached session with a window per watcher and a
	// status window.
	Create(sessionName, wardenBin, vaultPath string, watchers []string) error

	// AttachInstructions returns the operator hint for attaching.
	AttachInstructions(sessionName string) string
}
