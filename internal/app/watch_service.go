package app

import (
	"context"
	"time"

	"github.com/example/warden/internal/models"
	"github.com/example/warden/internal/ports/primary"
	"github.com/example/warden/internal/ports/secondary"
)

// WatchServiceImpl runs one event source against the ingest path until
// cancelled. Candidates are handled one at a time on the Run goroutine
// regardless of mode, so ledger admission never races. Push mode replaces
// the poll ticker after one catch-up sweep.
type WatchServiceImpl struct {
	source   secondary.EventSource
	ingest   primary.IngestService
	reporter secondary.Reporter
}

// NewWatchService creates the watch service for one source.
func NewWatchService(source secondary.EventSource, ingest primary.IngestService, reporter secondary.Reporter) *WatchServiceImpl {
	return &WatchServiceImpl{
		source:   source,
		ingest:   ingest,
		reporter: reporter,
	}
}

// Run polls the source at the requested interval, feeding candidates
// through the ingest path, until the context is cancelled. Returns nil
// on cancellation.
func (s *WatchServiceImpl) Run(ctx context.Context, req primary.WatchRequest) error {
	interval := req.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	s.reporter.Infof("%s watcher started (interval: %s)", s.source.Kind(), interval)

	if req.Push {
		if sub, ok := s.source.(secondary.Subscriber); ok {
			return s.runPush(ctx, sub, interval)
		}
		s.reporter.Warnf("%s source does not support push, polling only", s.source.Kind())
	}
	return s.runPoll(ctx, interval)
}

func (s *WatchServiceImpl) runPoll(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			s.reporter.Infof("%s watcher stopped", s.source.Kind())
			return nil
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// runPush consumes the subscription instead of polling. The goroutine
// running Subscribe only forwards candidates into a channel; handling
// happens here, one candidate at a time.
func (s *WatchServiceImpl) runPush(ctx context.Context, sub secondary.Subscriber, interval time.Duration) error {
	cands := make(chan models.Candidate)
	subErr := make(chan error, 1)
	go func() {
		subErr <- sub.Subscribe(ctx, func(cand models.Candidate) {
			select {
			case cands <- cand:
			case <-ctx.Done():
			}
		})
	}()

	// One sweep to catch events that arrived while the watcher was down.
	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			s.reporter.Infof("%s watcher stopped", s.source.Kind())
			return nil
		case cand := <-cands:
			s.handle(ctx, cand)
		case err := <-subErr:
			if ctx.Err() != nil {
				s.reporter.Infof("%s watcher stopped", s.source.Kind())
				return nil
			}
			if err != nil {
				s.reporter.Errorf("push subscription failed, falling back to polling: %v", err)
			}
			return s.runPoll(ctx, interval)
		}
	}
}

func (s *WatchServiceImpl) sweep(ctx context.Context) {
	cands, err := s.source.Poll(ctx)
	if err != nil {
		s.reporter.Errorf("poll failed: %v", err)
		return
	}
	for _, cand := range cands {
		if ctx.Err() != nil {
			return
		}
		s.handle(ctx, cand)
	}
}

func (s *WatchServiceImpl) handle(ctx context.Context, cand models.Candidate) {
	res, err := s.ingest.HandleCandidate(ctx, cand)
	if err != nil {
		s.reporter.Errorf("failed to handle candidate %s: %v", cand.ID, err)
		return
	}

	if res.Outcome == primary.IngestMaterialized {
		if ack, ok := s.source.(secondary.Acknowledger); ok {
			if err := ack.Acknowledge(ctx, cand.ID); err != nil {
				s.reporter.Warnf("failed to acknowledge %s: %v", cand.ID, err)
			}
		}
	}
}

// Ensure WatchServiceImpl implements the interface
var _ primary.WatchService = (*WatchServiceImpl)(nil)
