// Package ledger contains the file-backed deduplication ledger.
package ledger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/example/warden/internal/ports/secondary"
)

// FileLedger persists admitted identifiers as a newline-delimited list.
// One ledger file per event source kind; single writer per process.
type FileLedger struct {
	path     string
	ids      map[string]struct{}
	reporter secondary.Reporter
}

// NewFileLedger creates a ledger backed by the given file. Call Load
// before first use.
func NewFileLedger(path string, reporter secondary.Reporter) *FileLedger {
	return &FileLedger{
		path:     path,
		ids:      make(map[string]struct{}),
		reporter: reporter,
	}
}

// Load reads the backing store. Missing or unreadable stores are never
// fatal: the ledger starts empty and the condition is reported.
func (l *FileLedger) Load() error {
	l.ids = make(map[string]struct{})

	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		l.reporter.Warnf("could not load ledger %s, starting empty: %v", l.path, err)
		return nil
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id != "" {
			l.ids[id] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		l.reporter.Warnf("ledger %s partially read (%d entries kept): %v", l.path, len(l.ids), err)
		return nil
	}

	l.reporter.Infof("loaded %d previously processed identifiers", len(l.ids))
	return nil
}

// Contains reports whether the identifier has been admitted.
func (l *FileLedger) Contains(id string) bool {
	_, ok := l.ids[id]
	return ok
}

// Admit records the identifier and rewrites the backing store. A present
// identifier is a no-op. Persistence failures are returned but the
// in-memory set keeps the identifier regardless.
func (l *FileLedger) Admit(id string) error {
	if _, ok := l.ids[id]; ok {
		return nil
	}
	l.ids[id] = struct{}{}

	if err := l.persist(); err != nil {
		return fmt.Errorf("ledger persist failed (in-memory set still authoritative): %w", err)
	}
	return nil
}

// Len returns the number of admitted identifiers.
func (l *FileLedger) Len() int {
	return len(l.ids)
}

// persist rewrites the whole ledger file. Identifiers are written sorted
// so the file is stable across rewrites.
func (l *FileLedger) persist() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create ledger directory: %w", err)
	}

	ids := make([]string, 0, len(l.ids))
	for id := range l.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	for _, id := range ids {
		b.WriteString(id)
		b.WriteByte('\n')
	}

	if err := os.WriteFile(l.path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	return nil
}

// Ensure FileLedger implements the interface
var _ secondary.Ledger = (*FileLedger)(nil)
