package app

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/example/warden/internal/ports/primary"
	"github.com/example/warden/internal/ports/secondary"
)

// defaultGrace is how long a worker gets to exit after SIGTERM before
// being killed.
const defaultGrace = 5 * time.Second

// SupervisorServiceImpl manages watcher worker processes. The handle
// table lives in memory, so only workers started by this process are
// managed; orphans from a previous supervisor must be stopped by hand.
type SupervisorServiceImpl struct {
	launcher secondary.WorkerLauncher
	reporter secondary.Reporter
	grace    time.Duration

	mu      sync.Mutex
	workers map[string]secondary.WorkerHandle
}

// NewSupervisorService creates the supervisor service.
func NewSupervisorService(launcher secondary.WorkerLauncher, reporter secondary.Reporter) *SupervisorServiceImpl {
	return &SupervisorServiceImpl{
		launcher: launcher,
		reporter: reporter,
		grace:    defaultGrace,
		workers:  make(map[string]secondary.WorkerHandle),
	}
}

// Start launches the named watcher worker.
func (s *SupervisorServiceImpl) Start(name string) error {
	s.mu.Lock()
	if _, exists := s.workers[name]; exists {
		s.mu.Unlock()
		return fmt.Errorf("worker %s is already running", name)
	}
	s.mu.Unlock()

	handle, err := s.launcher.Launch(name, "watch", name)
	if err != nil {
		return fmt.Errorf("failed to launch worker %s: %w", name, err)
	}

	s.mu.Lock()
	s.workers[name] = handle
	s.mu.Unlock()

	s.reporter.Infof("worker %s started (pid %d)", name, handle.PID())

	go s.reap(name, handle)
	return nil
}

// reap removes the table entry when the worker exits on its own.
func (s *SupervisorServiceImpl) reap(name string, handle secondary.WorkerHandle) {
	<-handle.Done()
	err := handle.ExitErr()

	s.mu.Lock()
	current, ok := s.workers[name]
	if ok && current == handle {
		delete(s.workers, name)
	}
	s.mu.Unlock()

	if ok {
		if err != nil {
			s.reporter.Warnf("worker %s exited: %v", name, err)
		} else {
			s.reporter.Infof("worker %s exited", name)
		}
	}
}

// Stop terminates the named worker: SIGTERM, then SIGKILL after the
// grace period.
func (s *SupervisorServiceImpl) Stop(name string) error {
	s.mu.Lock()
	handle, ok := s.workers[name]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("worker %s is not running", name)
	}
	delete(s.workers, name)
	s.mu.Unlock()

	if err := handle.Terminate(); err != nil {
		s.reporter.Warnf("terminate %s: %v", name, err)
	}

	select {
	case <-handle.Done():
		s.reporter.Infof("worker %s stopped", name)
		return nil
	case <-time.After(s.grace):
	}

	s.reporter.Warnf("worker %s did not stop in %s, killing", name, s.grace)
	if err := handle.Kill(); err != nil {
		return fmt.Errorf("failed to kill worker %s: %w", name, err)
	}
	<-handle.Done()
	return nil
}

// StopAll stops every managed worker, collecting errors.
func (s *SupervisorServiceImpl) StopAll() []error {
	s.mu.Lock()
	names := make([]string, 0, len(s.workers))
	for name := range s.workers {
		names = append(names, name)
	}
	s.mu.Unlock()
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		if err := s.Stop(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Status reports all managed workers, sorted by name.
func (s *SupervisorServiceImpl) Status() []primary.WorkerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]primary.WorkerStatus, 0, len(s.workers))
	for name, handle := range s.workers {
		statuses = append(statuses, primary.WorkerStatus{
			Name:    name,
			Running: true,
			PID:     handle.PID(),
		})
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
	return statuses
}

// Ensure SupervisorServiceImpl implements the interface
var _ primary.SupervisorService = (*SupervisorServiceImpl)(nil)
