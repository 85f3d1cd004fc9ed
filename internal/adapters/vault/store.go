// Package vault contains the filesystem-backed stage store. Stages are
// directories under the vault root; a work item's stage is its location.
package vault

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/warden/internal/models"
	"github.com/example/warden/internal/ports/secondary"
)

// Store implements secondary.StageStore over a vault directory.
type Store struct {
	root string
}

// NewStore creates a stage store rooted at the vault directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the vault root.
func (s *Store) Root() string {
	return s.root
}

// Dir returns the directory backing a stage.
func (s *Store) Dir(stage models.Stage) string {
	return filepath.Join(s.root, string(stage))
}

// LogsDir returns the vault's Logs directory, which holds ledger files
// and daily watcher logs.
func (s *Store) LogsDir() string {
	return filepath.Join(s.root, "Logs")
}

// DropDir returns the default drop folder watched by the filesystem source.
func (s *Store) DropDir() string {
	return filepath.Join(s.Dir(models.StageIntake), "Drop")
}

// LedgerPath returns the processed-identifier ledger file for a source.
func (s *Store) LedgerPath(source string) string {
	return filepath.Join(s.LogsDir(), ".processed_"+source)
}

// EnsureLayout creates the stage directories plus Logs and the drop folder.
func (s *Store) EnsureLayout() error {
	dirs := make([]string, 0, len(models.Stages)+2)
	for _, stage := range models.Stages {
		dirs = append(dirs, s.Dir(stage))
	}
	dirs = append(dirs, s.LogsDir(), s.DropDir())

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// CountIn counts markdown records in a stage. A missing stage directory
// is zero items, not an error.
func (s *Store) CountIn(stage models.Stage) (int, error) {
	refs, err := s.ListIn(stage)
	if err != nil {
		return 0, err
	}
	return len(refs), nil
}

// ListIn returns the records in a stage sorted by name. Hidden files and
// non-markdown payloads are excluded.
func (s *Store) ListIn(stage models.Stage) ([]secondary.ItemRef, error) {
	entries, err := os.ReadDir(s.Dir(stage))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read stage %s: %w", stage, err)
	}

	var refs []secondary.ItemRef
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		refs = append(refs, secondary.ItemRef{
			Name:    entry.Name(),
			Path:    filepath.Join(s.Dir(stage), entry.Name()),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

// Publish writes a record into the needs-action stage: frontmatter plus
// body to a hidden temp file in the same directory, then rename. The
// rename is the publication point, so a concurrent reader sees either
// the whole record or nothing.
func (s *Store) Publish(rec *secondary.ItemRecord) (string, error) {
	dir := s.Dir(models.StageNeedsAction)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create needs-action stage: %w", err)
	}

	meta, err := yaml.Marshal(&rec.Meta)
	if err != nil {
		return "", fmt.Errorf("failed to marshal frontmatter: %w", err)
	}
	content := fmt.Sprintf("---\n%s---\n\n%s", meta, rec.Body)

	target, err := uniquePath(dir, rec.Name)
	if err != nil {
		return "", err
	}

	if err := atomicWrite(dir, target, []byte(content)); err != nil {
		return "", err
	}
	return target, nil
}

// StashPayload copies a source file next to its record in the
// needs-action stage, also via temp-then-rename.
func (s *Store) StashPayload(srcPath string) (string, error) {
	dir := s.Dir(models.StageNeedsAction)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create needs-action stage: %w", err)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("failed to open payload: %w", err)
	}
	defer src.Close()

	target, err := uniquePath(dir, filepath.Base(srcPath))
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(dir, ".payload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp payload: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to copy payload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to flush payload: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to publish payload: %w", err)
	}
	return target, nil
}

// uniquePath resolves name inside dir, inserting a numeric suffix before
// the extension while a file with that name already exists.
func uniquePath(dir, name string) (string, error) {
	target := filepath.Join(dir, name)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for n := 1; ; n++ {
		if _, err := os.Stat(target); os.IsNotExist(err) {
			return target, nil
		} else if err != nil {
			return "", fmt.Errorf("failed to probe %s: %w", target, err)
		}
		if n > 10000 {
			return "", fmt.Errorf("could not find free name for %s", name)
		}
		target = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
	}
}

// atomicWrite writes data to a hidden temp file in dir and renames it to
// target. The dot prefix keeps push-mode watchers from picking up the
// half-written file.
func atomicWrite(dir, target string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".record-*")
	if err != nil {
		return fmt.Errorf("failed to create temp record: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close record: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to publish record: %w", err)
	}
	return nil
}

// Ensure Store implements the interface
var _ secondary.StageStore = (*Store)(nil)
