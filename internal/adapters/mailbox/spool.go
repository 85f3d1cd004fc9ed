// Package mailbox contains mailbox provider clients. The provider's
// authentication and token lifecycle live behind secondary.MailboxClient;
// the spool client here serves local operation and testing against a
// directory of JSON message files.
package mailbox

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/example/warden/internal/ports/secondary"
)

// spoolMessage is the on-disk message format: one JSON file per message.
type spoolMessage struct {
	ID      string            `json:"id"`
	Snippet string            `json:"snippet"`
	Headers map[string]string `json:"headers"`
	Read    bool              `json:"read"`
}

// SpoolClient reads messages from a spool directory. Mark-read rewrites
// the message file with the read flag set.
type SpoolClient struct {
	dir string
}

// NewSpoolClient creates a spool client. A missing spool directory is a
// construction-time failure: the capability is absent, so the mailbox
// watcher must not start.
func NewSpoolClient(dir string) (*SpoolClient, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("mailbox spool unavailable at %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("mailbox spool %s is not a directory", dir)
	}
	return &SpoolClient{dir: dir}, nil
}

// Ready reports whether the spool directory is still reachable.
func (c *SpoolClient) Ready() bool {
	info, err := os.Stat(c.dir)
	return err == nil && info.IsDir()
}

// ListUnprocessed returns up to max unread messages, oldest file name
// first. Malformed message files are skipped, never fatal.
func (c *SpoolClient) ListUnprocessed(ctx context.Context, max int) ([]secondary.Message, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read spool: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var out []secondary.Message
	for _, name := range names {
		if max > 0 && len(out) >= max {
			break
		}
		if err := ctx.Err(); err != nil {
			return out, err
		}
		msg, err := c.readMessage(filepath.Join(c.dir, name))
		if err != nil {
			continue
		}
		if msg.Read || msg.ID == "" {
			continue
		}
		out = append(out, secondary.Message{ID: msg.ID, Snippet: msg.Snippet, Headers: msg.Headers})
	}
	return out, nil
}

// Acknowledge sets the read flag on the message with the given ID.
func (c *SpoolClient) Acknowledge(ctx context.Context, id string) error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("failed to read spool: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(c.dir, entry.Name())
		msg, err := c.readMessage(path)
		if err != nil || msg.ID != id {
			continue
		}
		msg.Read = true
		data, err := json.MarshalIndent(msg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal message: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to mark message read: %w", err)
		}
		return nil
	}
	return fmt.Errorf("message %s not found in spool", id)
}

func (c *SpoolClient) readMessage(path string) (*spoolMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var msg spoolMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Ensure SpoolClient implements the interface
var _ secondary.MailboxClient = (*SpoolClient)(nil)
