package secondary

import "context"

// Message is one unprocessed mailbox item as exposed by the provider.
type Message struct {
	ID      string
	Snippet string
	Headers map[string]string
}

// MailboxClient is the boundary to the mailbox provider. Authentication
// and token lifecycle are entirely owned by the implementation; the core
// only sees the Ready signal.
type MailboxClient interface {
	// Ready reports whether the client can reach the provider.
	Ready() bool

	// ListUnprocessed returns up to max unread messages. Provider-side
	// filtering (unread flags) is applied where the provider supports it.
	ListUnprocessed(ctx context.Context, max int) ([]Message, error)

	// Acknowledge marks a message processed (e.g. mark-read). Best
	// effort: failures are reported by the caller, never retried.
	Acknowledge(ctx context.Context, id string) error
}
