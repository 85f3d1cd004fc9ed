// Package classify contains the pure priority classification logic.
// This is part of the Functional Core - no I/O, only pure functions.
package classify

import (
	"strings"

	"github.com/example/warden/internal/models"
)

// Keyword tables, checked in precedence order. First matching tier wins;
// no match yields normal. The tables are fixed configuration, not learned.
var (
	criticalKeywords = []string{"urgent", "asap", "emergency", "help", "critical"}
	highKeywords     = []string{"invoice", "payment", "deadline", "due", "important"}
	lowKeywords      = []string{"newsletter", "unsubscribe", "promotion", "offer"}
)

// Classify maps textual content to a priority tier. Matching is
// case-insensitive substring search. Deterministic: the same text always
// yields the same tier.
func Classify(text string) models.Priority {
	lower := strings.ToLower(text)

	if containsAny(lower, criticalKeywords) {
		return models.PriorityCritical
	}
	if containsAny(lower, highKeywords) {
		return models.PriorityHigh
	}
	if containsAny(lower, lowKeywords) {
		return models.PriorityLow
	}
	return models.PriorityNormal
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
