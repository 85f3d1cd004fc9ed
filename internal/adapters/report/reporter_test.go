package report

import (
	"bytes"
	"strings"
	"testing"
)

func TestReporterFormat(t *testing.T) {
	var buf bytes.Buffer
	r := New("FilesystemWatcher", &buf)

	r.Infof("found %d new item(s)", 3)
	r.Warnf("could not load ledger")
	r.Errorf("boom: %v", "cause")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	for _, want := range []string{
		"FilesystemWatcher - INFO - found 3 new item(s)",
		"FilesystemWatcher - WARNING - could not load ledger",
		"FilesystemWatcher - ERROR - boom: cause",
	} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestOpenDailyLog(t *testing.T) {
	dir := t.TempDir()
	f, err := OpenDailyLog(dir, "watcher")
	if err != nil {
		t.Fatalf("OpenDailyLog failed: %v", err)
	}
	defer f.Close()

	if _, err := f.Write([]byte("entry\n")); err != nil {
		t.Errorf("write to daily log failed: %v", err)
	}
}
