package vault

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/warden/internal/models"
	"github.com/example/warden/internal/ports/secondary"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(t.TempDir())
	if err := s.EnsureLayout(); err != nil {
		t.Fatalf("EnsureLayout failed: %v", err)
	}
	return s
}

func testRecord(name string) *secondary.ItemRecord {
	return &secondary.ItemRecord{
		Name: name,
		Meta: models.ItemMeta{
			Type:       "email",
			Source:     "mailbox",
			Priority:   "high",
			Status:     "pending",
			Created:    "2026-03-14T09:26:53Z",
			Identifier: "msg-001",
			Extra:      map[string]string{"from": "billing@example.com"},
		},
		Body: "# Email: Invoice due\n\nPay it.\n",
	}
}

func TestEnsureLayoutCreatesAllStages(t *testing.T) {
	s := newTestStore(t)

	for _, stage := range models.Stages {
		if _, err := os.Stat(s.Dir(stage)); err != nil {
			t.Errorf("stage directory %s missing: %v", stage, err)
		}
	}
	if _, err := os.Stat(s.LogsDir()); err != nil {
		t.Errorf("Logs directory missing: %v", err)
	}
	if _, err := os.Stat(s.DropDir()); err != nil {
		t.Errorf("drop folder missing: %v", err)
	}
}

func TestPublishWritesFrontmatterAndBody(t *testing.T) {
	s := newTestStore(t)

	path, err := s.Publish(testRecord("EMAIL_Invoice_20260314_092653.md"))
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read record: %v", err)
	}
	content := string(data)

	if !strings.HasPrefix(content, "---\n") {
		t.Error("record should start with frontmatter delimiter")
	}
	for _, want := range []string{
		"type: email",
		"priority: high",
		"identifier: msg-001",
		"from: billing@example.com",
		"# Email: Invoice due",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("record missing %q:\n%s", want, content)
		}
	}
}

func TestPublishIntoNeedsAction(t *testing.T) {
	s := newTestStore(t)

	path, err := s.Publish(testRecord("FILE_report_20260314_092653.md"))
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if filepath.Dir(path) != s.Dir(models.StageNeedsAction) {
		t.Errorf("record published to %s, want needs-action stage", filepath.Dir(path))
	}
}

func TestPublishCollisionYieldsDistinctRecords(t *testing.T) {
	s := newTestStore(t)

	first, err := s.Publish(testRecord("EMAIL_Same_20260314_092653.md"))
	if err != nil {
		t.Fatalf("first Publish failed: %v", err)
	}
	second, err := s.Publish(testRecord("EMAIL_Same_20260314_092653.md"))
	if err != nil {
		t.Fatalf("second Publish failed: %v", err)
	}

	if first == second {
		t.Fatalf("colliding names produced the same path %s", first)
	}
	count, err := s.CountIn(models.StageNeedsAction)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("CountIn = %d, want 2 distinct records", count)
	}
}

func TestPublishLeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Publish(testRecord("EMAIL_x_20260314_092653.md")); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	entries, err := os.ReadDir(s.Dir(models.StageNeedsAction))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestStashPayload(t *testing.T) {
	s := newTestStore(t)

	src := filepath.Join(t.TempDir(), "invoice.pdf")
	if err := os.WriteFile(src, []byte("pdf bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	dest, err := s.StashPayload(src)
	if err != nil {
		t.Fatalf("StashPayload failed: %v", err)
	}
	if filepath.Dir(dest) != s.Dir(models.StageNeedsAction) {
		t.Errorf("payload stashed to %s, want needs-action stage", filepath.Dir(dest))
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "pdf bytes" {
		t.Errorf("payload content = %q", string(data))
	}
}

func TestCountInMissingStageIsZero(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "never-created"))

	count, err := s.CountIn(models.StageDone)
	if err != nil {
		t.Fatalf("CountIn on missing stage should not error: %v", err)
	}
	if count != 0 {
		t.Errorf("CountIn = %d, want 0", count)
	}
}

func TestListInExcludesPayloadsAndHiddenFiles(t *testing.T) {
	s := newTestStore(t)
	dir := s.Dir(models.StageNeedsAction)

	for name, body := range map[string]string{
		"B_record.md":  "b",
		"A_record.md":  "a",
		"invoice.pdf":  "payload",
		".hidden.md":   "hidden",
		".record-tmp1": "tmp",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}

	refs, err := s.ListIn(models.StageNeedsAction)
	if err != nil {
		t.Fatalf("ListIn failed: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("ListIn returned %d refs, want 2", len(refs))
	}
	if refs[0].Name != "A_record.md" || refs[1].Name != "B_record.md" {
		t.Errorf("ListIn not sorted by name: %v", refs)
	}
}
