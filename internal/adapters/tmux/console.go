// Package tmux contains the gotmux-backed operator console.
package tmux

import (
	"fmt"
	"os/exec"

	"github.com/GianlucaP106/gotmux/gotmux"

	"github.com/example/warden/internal/ports/secondary"
)

// Console manages the warden observation session: one window per
// watcher worker plus a status window, so the operator can watch the
// pipeline live.
type Console struct {
	tmux *gotmux.Tmux
}

// NewConsole creates a console backed by the default tmux client.
func NewConsole() (*Console, error) {
	tmux, err := gotmux.DefaultTmux()
	if err != nil {
		return nil, fmt.Errorf("failed to create tmux client: %w", err)
	}
	return &Console{tmux: tmux}, nil
}

// SessionExists checks if a tmux session exists.
func (c *Console) SessionExists(name string) bool {
	sessions, err := c.tmux.ListSessions()
	if err != nil {
		return false
	}
	for _, s := range sessions {
		if s.Name == name {
			return true
		}
	}
	return false
}

// KillSession terminates a tmux session.
func (c *Console) KillSession(name string) error {
	sessions, err := c.tmux.ListSessions()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	for _, s := range sessions {
		if s.Name == name {
			return s.Kill()
		}
	}
	return fmt.Errorf("session %s not found", name)
}

// Create builds the console session: a window per watcher running
// `warden watch <name>`, plus a status window. Windows start in workdir
// so the watchers find the same config the operator uses. The session is
// created detached; use AttachInstructions for the operator hint.
func (c *Console) Create(sessionName, wardenBin, workdir string, watchers []string) error {
	if c.SessionExists(sessionName) {
		return fmt.Errorf("session %s already exists", sessionName)
	}
	if len(watchers) == 0 {
		return fmt.Errorf("no watchers to observe")
	}

	session, err := c.tmux.NewSession(&gotmux.SessionOptions{
		Name:           sessionName,
		StartDirectory: workdir,
	})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	// The session comes with one window; repurpose it for the first watcher.
	windows, err := session.ListWindows()
	if err != nil || len(windows) == 0 {
		return fmt.Errorf("no windows found in new session")
	}
	if err := c.setupWatcherWindow(windows[0], watchers[0], wardenBin); err != nil {
		return err
	}

	for _, name := range watchers[1:] {
		window, err := session.NewWindow(&gotmux.NewWindowOptions{
			WindowName:     name,
			StartDirectory: workdir,
			DoNotAttach:    true,
		})
		if err != nil {
			return fmt.Errorf("failed to create window %s: %w", name, err)
		}
		if err := c.setupWatcherWindow(window, name, wardenBin); err != nil {
			return err
		}
	}

	// Status window with a shell ready for warden status / warden loop.
	if _, err := session.NewWindow(&gotmux.NewWindowOptions{
		WindowName:     "status",
		StartDirectory: workdir,
		DoNotAttach:    true,
	}); err != nil {
		return fmt.Errorf("failed to create status window: %w", err)
	}

	return nil
}

// setupWatcherWindow renames a window and respawns its pane with the
// watcher command as root process (NewWindowOptions doesn't support
// ShellCommand, so we respawn).
func (c *Console) setupWatcherWindow(window *gotmux.Window, watcherName, wardenBin string) error {
	if err := window.Rename(watcherName); err != nil {
		return fmt.Errorf("failed to rename window: %w", err)
	}

	panes, err := window.ListPanes()
	if err != nil || len(panes) == 0 {
		return fmt.Errorf("failed to get pane for %s: %w", watcherName, err)
	}

	cmd := exec.Command("tmux", "respawn-pane", "-t", panes[0].Id, "-k",
		wardenBin, "watch", watcherName)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to respawn watcher pane %s: %w", watcherName, err)
	}
	return nil
}

// AttachInstructions returns the operator hint for attaching to the session.
func (c *Console) AttachInstructions(sessionName string) string {
	return fmt.Sprintf("Attach to session: tmux attach -t %s\n\n"+
		"Windows:\n"+
		"  one per watcher (live watcher output)\n"+
		"  status (shell for warden status / warden loop)\n\n"+
		"TMux Commands:\n"+
		"  Switch windows: Ctrl+b then window number\n"+
		"  Detach session: Ctrl+b then d\n",
		sessionName)
}

// Ensure Console implements the interface
var _ secondary.ConsoleManager = (*Console)(nil)
