// Package report contains the stderr/file reporter implementation.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/example/warden/internal/ports/secondary"
)

// Reporter writes timestamped, component-tagged lines, mirroring the
// classic "time - component - LEVEL - message" log shape.
type Reporter struct {
	component string
	mu        sync.Mutex
	out       io.Writer
}

// New creates a reporter for a component. With no writers it logs to
// stderr; multiple writers (e.g. stderr plus a daily log file) are
// combined.
func New(component string, writers ...io.Writer) *Reporter {
	var out io.Writer = os.Stderr
	if len(writers) == 1 {
		out = writers[0]
	} else if len(writers) > 1 {
		out = io.MultiWriter(writers...)
	}
	return &Reporter{component: component, out: out}
}

// Infof logs at INFO level.
func (r *Reporter) Infof(format string, args ...any) {
	r.emit("INFO", format, args)
}

// Warnf logs at WARNING level.
func (r *Reporter) Warnf(format string, args ...any) {
	r.emit("WARNING", format, args)
}

// Errorf logs at ERROR level.
func (r *Reporter) Errorf(format string, args ...any) {
	r.emit("ERROR", format, args)
}

func (r *Reporter) emit(level, format string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "%s - %s - %s - %s\n",
		time.Now().Format("2006-01-02 15:04:05"), r.component, level, fmt.Sprintf(format, args...))
}

// OpenDailyLog opens (appending) the day's log file under the given
// directory, e.g. Logs/watcher_2026-03-14.log. The caller owns closing.
func OpenDailyLog(dir, prefix string) (io.WriteCloser, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	name := fmt.Sprintf("%s_%s.log", prefix, time.Now().Format("2006-01-02"))
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// Ensure Reporter implements the interface
var _ secondary.Reporter = (*Reporter)(nil)
