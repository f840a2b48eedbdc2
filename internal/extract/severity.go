// Package extract turns free-text answers into structured report fields.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	MinSeverity = 1
	MaxSeverity = 10
)

// severityPatterns tie a number to explicit severity vocabulary. They are
// tried in order and the first in-range value wins.
var severityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\s*(?:out\s+of\s+10|/10)`),
	regexp.MustCompile(`(?i)(?:severity|level|score|rate)\s*:?\s*(\d+)`),
	regexp.MustCompile(`(?i)(?:is|are|been)\s+(\d+)`),
}

var standaloneSeverity = regexp.MustCompile(`\b([1-9]|10)\b`)

// severityKeywords maps descriptive words to an inferred level, highest first.
var severityKeywords = []struct {
	level int
	words []string
}{
	{9, []string{"critical", "urgent", "emergency", "severe", "dangerous", "immediate", "life-threatening"}},
	{7, []string{"serious", "major", "important", "significant", "bad", "broken"}},
	{5, []string{"moderate", "medium", "somewhat", "noticeable"}},
	{3, []string{"minor", "small", "slight", "trivial", "inconvenience", "little"}},
}

// Severity extracts a severity rating in [1,10] from text. The second return
// value is false when nothing usable was found and the caller should ask again.
//
// Resolution order: a bare number, a number tied to severity vocabulary
// ("7/10", "level 5"), any standalone 1-10 token in a short answer, and
// finally descriptive keywords in longer answers.
func Severity(text string) (int, bool) {
	clean := strings.TrimSpace(text)
	length := utf8.RuneCountInString(clean)

	if isDigits(clean) {
		if n, ok := inRange(clean); ok {
			return n, true
		}
	}

	for _, re := range severityPatterns {
		m := re.FindStringSubmatch(clean)
		if m == nil {
			continue
		}
		if n, ok := inRange(m[1]); ok {
			return n, true
		}
	}

	if length < 20 {
		if m := standaloneSeverity.FindStringSubmatch(clean); m != nil {
			if n, ok := inRange(m[1]); ok {
				return n, true
			}
		}
	}

	// Very short answers are direct replies to the rating question; guessing
	// from words there would hide a typo.
	if length <= 5 {
		return 0, false
	}

	lower := strings.ToLower(clean)
	for _, tier := range severityKeywords {
		if containsAny(lower, tier.words) {
			return tier.level, true
		}
	}
	return 0, false
}

// ValidSeverity reports whether n may be stored as a severity level.
func ValidSeverity(n int) bool {
	return n >= MinSeverity && n <= MaxSeverity
}

func inRange(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || !ValidSeverity(n) {
		return 0, false
	}
	return n, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
