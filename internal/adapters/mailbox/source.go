package mailbox

import (
	"context"
	"fmt"

	"github.com/example/warden/internal/models"
	"github.com/example/warden/internal/ports/secondary"
)

// defaultBatch bounds how many messages one poll pulls from the provider.
const defaultBatch = 10

// Source adapts a MailboxClient into an event source. The provider
// message ID is the candidate identifier.
type Source struct {
	client secondary.MailboxClient
}

// NewSource creates a mailbox event source.
func NewSource(client secondary.MailboxClient) *Source {
	return &Source{client: client}
}

// Kind identifies this source.
func (s *Source) Kind() models.SourceKind {
	return models.SourceMailbox
}

// Poll lists unprocessed messages from the provider.
func (s *Source) Poll(ctx context.Context) ([]models.Candidate, error) {
	if !s.client.Ready() {
		return nil, fmt.Errorf("mailbox provider not reachable")
	}

	msgs, err := s.client.ListUnprocessed(ctx, defaultBatch)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	cands := make([]models.Candidate, 0, len(msgs))
	for _, m := range msgs {
		cands = append(cands, models.Candidate{
			ID:      m.ID,
			Source:  models.SourceMailbox,
			Snippet: m.Snippet,
			Headers: m.Headers,
		})
	}
	return cands, nil
}

// Acknowledge marks a message processed on the provider side.
func (s *Source) Acknowledge(ctx context.Context, id string) error {
	return s.client.Acknowledge(ctx, id)
}

// Ensure Source implements the interfaces
var _ secondary.EventSource = (*Source)(nil)
var _ secondary.Acknowledger = (*Source)(nil)
