package primary

import (
	"context"
	"time"
)

// WatchRequest configures one watcher run loop.
type WatchRequest struct {
	Interval time.Duration
	// Push enables event-driven subscription where the source supports
	// it; polling remains the fallback.
	Push bool
}

// WatchService runs an event source until the context is cancelled,
// feeding every candidate through the ingest path.
type WatchService interface {
	Run(ctx context.Context, req WatchRequest) error
}
