package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minLocationLen = 3
	maxLocationLen = 200
)

// acknowledgements are replies that answer the question without naming a place.
var acknowledgements = map[string]bool{
	"yes": true, "no": true, "ok": true, "okay": true, "sure": true,
	"thanks": true, "thanks!": true, "great": true, "good": true,
}

var locationStopwords = map[string]bool{
	"the": true, "this": true, "that": true, "there": true, "here": true,
}

// locationPatterns recognise structured locations, most specific first.
var locationPatterns = []*regexp.Regexp{
	// 221 Baker Street
	regexp.MustCompile(`(?i)\b\d+\s+\w+\s+(street|st|avenue|ave|road|rd|boulevard|blvd|drive|dr|lane|ln|way|place|pl)\b`),
	// MG Road, Main Street
	regexp.MustCompile(`(?i)\b([A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+)*)\s+(road|street|st|avenue|ave|rd|boulevard|blvd|drive|dr)\b`),
	// near Railway Station, at Central Park, Jaipur
	regexp.MustCompile(`(?i)\b(at|near|on|in)\s+([A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+)*(?:,\s*[A-Z][A-Za-z]+)?)`),
	// Central Park, Jaipur
	regexp.MustCompile(`(?i)\b([A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+)+)(?:,\s*[A-Z][A-Za-z]+)?`),
	// 26.9124, 75.7873
	regexp.MustCompile(`(?i)\b\d+\.\d+,\s*-?\d+\.\d+\b`),
}

var leadingPreposition = regexp.MustCompile(`(?i)^(at|near|on|in)\s+`)

// Location extracts a location from text. Any reasonably sized answer that is
// not a bare acknowledgement is taken verbatim; otherwise the text is searched
// for an address, road, landmark or coordinate pair.
func Location(text string) (string, bool) {
	clean := strings.TrimSpace(text)
	length := utf8.RuneCountInString(clean)

	if length >= minLocationLen && length <= maxLocationLen && !acknowledgements[strings.ToLower(clean)] {
		return clean, true
	}

	for _, re := range locationPatterns {
		for _, match := range re.FindAllString(clean, -1) {
			loc := strings.TrimSpace(match)
			if locationStopwords[strings.ToLower(loc)] {
				continue
			}
			loc = leadingPreposition.ReplaceAllString(loc, "")
			if utf8.RuneCountInString(loc) > 3 {
				return loc, true
			}
		}
	}

	if length >= minLocationLen {
		return clean, true
	}
	return "", false
}
