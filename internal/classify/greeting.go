package classify

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var greetings = map[string]bool{
	"hi": true, "hello": true, "hey": true,
	"good morning": true, "good afternoon": true, "good evening": true,
	"greetings": true, "hi there": true, "hello there": true, "hey there": true,
	"what's up": true, "sup": true,
}

// issueWords is deliberately narrower than the routing keyword sets; it only
// has to tell small talk apart from a report.
var issueWords = []string{
	"traffic", "road", "congestion", "parking", "accident", "pothole", "blocked",
	"trash", "garbage", "waste", "recycling", "litter", "overflowing", "smell",
	"park", "green", "energy", "electricity", "pollution", "light", "lights", "broken",
}

// IsGreeting reports whether text is a social opener rather than an issue.
// Any digit or issue keyword makes it substantive.
func IsGreeting(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))

	if strings.IndexFunc(lower, unicode.IsDigit) >= 0 {
		return false
	}
	for _, w := range issueWords {
		if strings.Contains(lower, w) {
			return false
		}
	}

	if greetings[lower] {
		return true
	}
	if strings.HasPrefix(lower, "hi ") || strings.HasPrefix(lower, "hello ") || strings.HasPrefix(lower, "hey ") {
		if len(strings.Fields(lower)) <= 3 {
			return true
		}
	}
	return utf8.RuneCountInString(lower) < 15
}
