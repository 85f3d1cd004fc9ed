package itemname

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  string
	}{
		{"plain label", "quarterly report", "quarterly report"},
		{"hostile characters", `re: invoice <42> for "you"`, "re_ invoice _42_ for _you_"},
		{"path separators", `a/b\c`, "a_b_c"},
		{"control characters", "line1\nline2", "line1_line2"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.label); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.label, got, tt.want)
			}
		})
	}
}

func TestSanitizeCapsLength(t *testing.T) {
	long := strings.Repeat("x", 300)
	got := Sanitize(long)
	if len(got) != maxLabelLen {
		t.Errorf("Sanitize length = %d, want %d", len(got), maxLabelLen)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 100); got != "short" {
		t.Errorf("Truncate under the cap = %q, want unchanged", got)
	}
	if got := Truncate("abcdef", 3); got != "abc" {
		t.Errorf("Truncate = %q, want %q", got, "abc")
	}

	// 3-byte runes: a 100-byte cut would land mid-rune.
	long := strings.Repeat("日", 40)
	got := Truncate(long, 100)
	if !utf8.ValidString(got) {
		t.Errorf("Truncate split a rune: %q", got)
	}
	if len(got) != 99 {
		t.Errorf("Truncate length = %d, want 99 (nearest rune boundary)", len(got))
	}
}

func TestSanitizeMultiByteStaysValidUTF8(t *testing.T) {
	got := Sanitize(strings.Repeat("ü", 200))
	if !utf8.ValidString(got) {
		t.Errorf("Sanitize produced invalid UTF-8: %q", got)
	}
	if len(got) > maxLabelLen {
		t.Errorf("Sanitize length = %d, want <= %d", len(got), maxLabelLen)
	}
}

func TestRecordName(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	got := RecordName("EMAIL", "Invoice due", ts)
	want := "EMAIL_Invoice due_20260314_092653.md"
	if got != want {
		t.Errorf("RecordName = %q, want %q", got, want)
	}
}
