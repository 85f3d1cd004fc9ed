// Package process contains the os/exec worker launcher used by the
// supervisor.
package process

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/example/warden/internal/ports/secondary"
)

// Launcher starts worker processes as detached children of this process.
type Launcher struct {
	binary string
}

// NewLauncher creates a launcher that spawns the given binary. Empty
// means the current executable, so the supervisor re-invokes itself for
// worker subcommands.
func NewLauncher(binary string) (*Launcher, error) {
	if binary == "" {
		self, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve own executable: %w", err)
		}
		binary = self
	}
	return &Launcher{binary: binary}, nil
}

// Launch starts a worker and begins reaping it in the background.
func (l *Launcher) Launch(name string, args ...string) (secondary.WorkerHandle, error) {
	cmd := exec.Command(l.binary, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start worker %s: %w", name, err)
	}

	h := &handle{cmd: cmd, done: make(chan struct{})}
	go func() {
		h.exitErr = cmd.Wait()
		close(h.done)
	}()
	return h, nil
}

type handle struct {
	cmd     *exec.Cmd
	done    chan struct{}
	exitErr error
}

func (h *handle) PID() int {
	return h.cmd.Process.Pid
}

func (h *handle) Terminate() error {
	return h.cmd.Process.Signal(syscall.SIGTERM)
}

func (h *handle) Kill() error {
	return h.cmd.Process.Kill()
}

func (h *handle) Done() <-chan struct{} {
	return h.done
}

func (h *handle) ExitErr() error {
	return h.exitErr
}

// Ensure Launcher implements the interface
var _ secondary.WorkerLauncher = (*Launcher)(nil)
