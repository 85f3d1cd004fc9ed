package mailbox

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeSpoolMessage(t *testing.T, dir, name string, msg spoolMessage) {
	t.Helper()
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestNewSpoolClientRequiresDirectory(t *testing.T) {
	if _, err := NewSpoolClient(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("missing spool directory should fail at construction")
	}
	if _, err := NewSpoolClient(t.TempDir()); err != nil {
		t.Errorf("existing spool directory should construct: %v", err)
	}
}

func TestListUnprocessed(t *testing.T) {
	dir := t.TempDir()
	writeSpoolMessage(t, dir, "001.json", spoolMessage{
		ID:      "msg-1",
		Snippet: "please pay the invoice",
		Headers: map[string]string{"Subject": "Invoice", "From": "billing@example.com"},
	})
	writeSpoolMessage(t, dir, "002.json", spoolMessage{ID: "msg-2", Snippet: "hi", Read: true})
	writeSpoolMessage(t, dir, "003.json", spoolMessage{ID: "msg-3", Snippet: "newsletter"})
	if err := os.WriteFile(filepath.Join(dir, "garbage.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	client, err := NewSpoolClient(dir)
	if err != nil {
		t.Fatal(err)
	}

	msgs, err := client.ListUnprocessed(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListUnprocessed failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2 (unread, well-formed only)", len(msgs))
	}
	if msgs[0].ID != "msg-1" || msgs[1].ID != "msg-3" {
		t.Errorf("unexpected order: %v", msgs)
	}
	if msgs[0].Headers["From"] != "billing@example.com" {
		t.Errorf("headers not carried through: %v", msgs[0].Headers)
	}
}

func TestListUnprocessedHonorsMax(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.json", "b.json", "c.json"} {
		writeSpoolMessage(t, dir, name, spoolMessage{ID: "id-" + name, Snippet: "x"})
	}

	client, err := NewSpoolClient(dir)
	if err != nil {
		t.Fatal(err)
	}
	msgs, err := client.ListUnprocessed(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 {
		t.Errorf("got %d messages, want max 2", len(msgs))
	}
}

func TestAcknowledge(t *testing.T) {
	dir := t.TempDir()
	writeSpoolMessage(t, dir, "001.json", spoolMessage{ID: "msg-1", Snippet: "x"})

	client, err := NewSpoolClient(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := client.Acknowledge(context.Background(), "msg-1"); err != nil {
		t.Fatalf("Acknowledge failed: %v", err)
	}

	msgs, err := client.ListUnprocessed(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 0 {
		t.Errorf("acknowledged message still listed: %v", msgs)
	}

	if err := client.Acknowledge(context.Background(), "no-such-id"); err == nil {
		t.Error("acknowledging an unknown message should error")
	}
}
