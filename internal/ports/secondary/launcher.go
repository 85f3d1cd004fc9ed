package secondary

// WorkerHandle tracks one launched worker process.
type WorkerHandle interface {
	PID() int

	// Terminate requests graceful shutdown (SIGTERM).
	Terminate() error

	// Kill forces termination (SIGKILL).
	Kill() error

	// Done is closed when the process exits, so any number of waiters
	// can observe the exit.
	Done() <-chan struct{}

	// ExitErr returns the exit result. Only valid after Done is closed.
	ExitErr() error
}

// WorkerLauncher starts worker processes for the supervisor.
type WorkerLauncher interface {
	Launch(name string, args ...string) (WorkerHandle, error)
}
