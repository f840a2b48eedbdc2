// Package notify forwards submitted reports to outside systems.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ziadkadry99/city-intake/internal/extract"
	"github.com/ziadkadry99/city-intake/internal/reports"
)

// DefaultSeverity replaces a severity outside the valid range.
const DefaultSeverity = 5

// ErrNotConfigured is returned by a relay that has no destination.
var ErrNotConfigured = errors.New("notify: relay destination not configured")

// Relay delivers a report. A nil error means the destination accepted it.
type Relay interface {
	Deliver(ctx context.Context, r reports.Report) error
}

// Payload is the flat record sent to the webhook. Keys match the columns of
// the receiving sheet.
type Payload struct {
	Location   string `json:"Location"`
	Issue      string `json:"Issue"`
	Severity   int    `json:"Severity"`
	Department string `json:"Department"`
}

// NewPayload builds the webhook record for r. Severity is always in [1,10].
func NewPayload(r reports.Report) Payload {
	return Payload{
		Location:   r.Location,
		Issue:      r.IssueDescription,
		Severity:   ClampSeverity(r.SeverityLevel),
		Department: DisplayDepartment(r.Department),
	}
}

// ClampSeverity maps an out-of-range severity to DefaultSeverity.
func ClampSeverity(n int) int {
	if !extract.ValidSeverity(n) {
		return DefaultSeverity
	}
	return n
}

// DisplayDepartment title-cases a report department name: "green_energy"
// becomes "Green Energy".
func DisplayDepartment(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

// Fanout delivers to every relay and joins their errors. Relays that are not
// configured are skipped.
type Fanout []Relay

func (f Fanout) Deliver(ctx context.Context, r reports.Report) error {
	var errs []error
	delivered := 0
	for _, relay := range f {
		err := relay.Deliver(ctx, r)
		switch {
		case err == nil:
			delivered++
		case errors.Is(err, ErrNotConfigured):
		default:
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if delivered == 0 {
		return ErrNotConfigured
	}
	return nil
}

// truncate keeps at most n runes of s.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func statusError(kind string, code int, body string) error {
	return fmt.Errorf("%s returned status %d: %s", kind, code, truncate(body, 200))
}
