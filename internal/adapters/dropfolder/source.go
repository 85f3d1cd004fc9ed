// Package dropfolder contains the filesystem event source: new files
// appearing in the vault drop folder become candidates.
package dropfolder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/example/warden/internal/adapters/watchfs"
	"github.com/example/warden/internal/models"
	"github.com/example/warden/internal/ports/secondary"
)

// Source produces candidates from the drop folder. The candidate ID is
// the content hash, so a renamed copy of an already-processed file is
// still a duplicate.
type Source struct {
	dir      string
	reporter secondary.Reporter
}

// NewSource creates a drop-folder source.
func NewSource(dir string, reporter secondary.Reporter) *Source {
	return &Source{dir: dir, reporter: reporter}
}

// Kind identifies this source.
func (s *Source) Kind() models.SourceKind {
	return models.SourceFilesystem
}

// Poll scans the drop folder and returns a candidate per regular file.
// Unreadable files are skipped with a warning so one bad file cannot
// stall the rest of the batch.
func (s *Source) Poll(ctx context.Context) ([]models.Candidate, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read drop folder: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var cands []models.Candidate
	for _, name := range names {
		path := filepath.Join(s.dir, name)
		if watchfs.Ignored(path) {
			continue
		}
		cand, err := s.candidate(path)
		if err != nil {
			s.reporter.Warnf("skipping %s: %v", path, err)
			continue
		}
		cands = append(cands, cand)
	}
	return cands, nil
}

// Subscribe delivers candidates as files appear, using filesystem
// notifications. Blocks until the context is cancelled.
func (s *Source) Subscribe(ctx context.Context, deliver func(models.Candidate)) error {
	watcher := watchfs.NewDirWatcher(s.dir, s.reporter)
	return watcher.Watch(ctx, func(path string) {
		cand, err := s.candidate(path)
		if err != nil {
			s.reporter.Warnf("skipping %s: %v", path, err)
			return
		}
		deliver(cand)
	})
}

func (s *Source) candidate(path string) (models.Candidate, error) {
	id, err := hashFile(path)
	if err != nil {
		return models.Candidate{}, err
	}
	return models.Candidate{
		ID:     id,
		Source: models.SourceFilesystem,
		Path:   path,
	}, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Ensure Source implements the interfaces
var _ secondary.EventSource = (*Source)(nil)
var _ secondary.Subscriber = (*Source)(nil)
