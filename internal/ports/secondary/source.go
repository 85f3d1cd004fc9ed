package secondary

import (
	"context"

	"github.com/example/warden/internal/models"
)

// EventSource produces candidates from one external source. Poll must be
// cheap and safe to call repeatedly: when there is nothing new it returns
// an empty slice, not an error.
type EventSource interface {
	Kind() models.SourceKind
	Poll(ctx context.Context) ([]models.Candidate, error)
}

// Subscriber is the optional push-mode extension of an event source.
// Subscribe blocks delivering candidates one at a time, in arrival order,
// until the context is cancelled. Transient artifacts (hidden files,
// temp-suffixed files, directory events) are filtered before delivery.
type Subscriber interface {
	Subscribe(ctx context.Context, deliver func(models.Candidate)) error
}

// Acknowledger is the optional extension for sources that support a
// best-effort post-materialization side effect (e.g. mark-read).
type Acknowledger interface {
	Acknowledge(ctx context.Context, id string) error
}
