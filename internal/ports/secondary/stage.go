package secondary

import (
	"time"

	"github.com/example/warden/internal/models"
)

// ItemRef is a lightweight reference to a record inside a stage.
type ItemRef struct {
	Name    string
	Path    string
	ModTime time.Time
}

// ItemRecord is the payload handed to the stage store for publication.
type ItemRecord struct {
	// Name is the desired record file name (including .md). The store
	// uniquifies it when a record with that name already exists.
	Name string
	Meta models.ItemMeta
	Body string
}

// StageStore is the vault boundary. The core only ever writes into the
// needs-action stage; downstream stages are mutated by the external
// agent or the operator and read here without caching.
type StageStore interface {
	// EnsureLayout creates the stage directories if absent.
	EnsureLayout() error

	// CountIn returns the number of records in a stage. A missing stage
	// directory counts as zero, not an error.
	CountIn(stage models.Stage) (int, error)

	// ListIn returns the records in a stage, sorted by name.
	ListIn(stage models.Stage) ([]ItemRef, error)

	// Publish atomically writes a record into the needs-action stage and
	// returns the final path. A concurrent reader never observes a
	// partially-written record.
	Publish(rec *ItemRecord) (string, error)

	// StashPayload copies a source file into the needs-action holding
	// area and returns the destination path, so the record and its
	// payload appear together.
	StashPayload(srcPath string) (string, error)

	// Dir returns the directory backing a stage.
	Dir(stage models.Stage) string

	// Root returns the vault root.
	Root() string
}
