package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverity(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   int
		wantOK bool
	}{
		{"bare number", "7", 7, true},
		{"fraction", "7/10", 7, true},
		{"out of ten", "about 6 out of 10", 6, true},
		{"severity keyword", "severity 8", 8, true},
		{"level keyword", "level 5", 5, true},
		{"score with colon", "score: 4", 4, true},
		{"max", "10", 10, true},
		{"min", "1", 1, true},
		{"padded", "  3  ", 3, true},
		{"verb tied number", "the problem has been 8 for days now", 8, true},
		{"short answer with number", "I'd say about 6", 6, true},
		{"critical keyword", "this is really urgent", 9, true},
		{"high keyword", "pretty bad honestly", 7, true},
		{"medium keyword", "moderate", 5, true},
		{"low keyword", "a minor thing", 3, true},
		{"no signal", "maybe", 0, false},
		{"zero", "0", 0, false},
		{"too high", "11", 0, false},
		{"short word", "bad", 0, false},
		{"empty", "", 0, false},
		{"long without signal", "I really cannot tell you right now", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Severity(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeverityOutOfRangePatternFallsThrough(t *testing.T) {
	// 15/10 is rejected, the level pattern still matches.
	got, ok := Severity("15/10, level 4")
	assert.True(t, ok)
	assert.Equal(t, 4, got)
}

func TestLocation(t *testing.T) {
	long := strings.Repeat("blah ", 45)

	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"landmark phrase", "near railway station", "near railway station", true},
		{"trimmed", "  MG Road  ", "MG Road", true},
		{"coordinates short", "26.9124, 75.7873", "26.9124, 75.7873", true},
		{"too short", "ok", "", false},
		{"two letters", "no", "", false},
		{"empty", "   ", "", false},
		{"acknowledgement falls back to raw text", "okay", "okay", true},
		{"street address in long text", long + "the pothole is at 221 Baker Street", "221 Baker Street", true},
		{"coordinates in long text", strings.Repeat(".", 200) + " 26.9124, 75.7873", "26.9124, 75.7873", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Location(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocationContainsLandmark(t *testing.T) {
	got, ok := Location("near railway station")
	assert.True(t, ok)
	assert.Contains(t, got, "railway station")
}

func TestValidSeverity(t *testing.T) {
	assert.False(t, ValidSeverity(0))
	assert.True(t, ValidSeverity(1))
	assert.True(t, ValidSeverity(10))
	assert.False(t, ValidSeverity(11))
	assert.False(t, ValidSeverity(-2))
}
