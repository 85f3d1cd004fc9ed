package models

// Candidate is a transient, not-yet-deduplicated representation of a
// possible new event. Candidates are produced by event sources and
// consumed by the ingest path; they are never persisted.
type Candidate struct {
	// ID is the stable source identifier: a content hash for files,
	// the provider message ID for mailbox items.
	ID     string
	Source SourceKind

	// Filesystem candidates.
	Path string

	// Mailbox candidates.
	Snippet string
	Headers map[string]string
}
