// Package itemname contains the pure naming rules for materialized
// work item records. This is part of the Functional Core - no I/O.
package itemname

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// maxLabelLen caps the sanitized human label so record names stay
// well under filesystem limits even with prefix and timestamp attached.
const maxLabelLen = 100

// Sanitize strips filesystem-hostile characters from a human label and
// caps its length. Hostile characters are replaced with underscores so
// the label stays recognizable.
func Sanitize(label string) string {
	var b strings.Builder
	for _, r := range label {
		switch {
		case r < 0x20:
			b.WriteRune('_')
		case strings.ContainsRune(`<>:"/\|?*`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	return Truncate(b.String(), maxLabelLen)
}

// Truncate caps s at max bytes without splitting a multi-byte rune, so
// the result is always valid UTF-8.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// RecordName builds the record file name for a work item:
// PREFIX_label_YYYYMMDD_HHMMSS.md. The second-resolution timestamp keeps
// repeated runs from colliding; same-second collisions are resolved by
// the stage store at publish time.
func RecordName(prefix, label string, t time.Time) string {
	return fmt.Sprintf("%s_%s_%s.md", prefix, Sanitize(label), t.Format("20060102_150405"))
}
