package primary

// WorkerStatus reports the liveness of one named worker.
type WorkerStatus struct {
	Name    string
	Running bool
	PID     int
}

// SupervisorService manages the watcher worker processes. The handle
// table is process-local and in-memory: workers started by a previous
// supervisor process are unmanaged (known limitation).
type SupervisorService interface {
	// Start launches the named worker. Starting an already-running name
	// is rejected with an error rather than double-launching.
	Start(name string) error

	// Stop requests graceful termination and escalates to forced
	// termination after the grace period.
	Stop(name string) error

	// StopAll stops every managed worker, collecting errors.
	StopAll() []error

	// Status reports all known workers.
	Status() []WorkerStatus
}
