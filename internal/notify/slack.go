package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"github.com/ziadkadry99/city-intake/internal/reports"
)

// SlackRelay posts a report summary to a Slack incoming webhook.
type SlackRelay struct {
	url string
}

// NewSlackRelay creates a SlackRelay. An empty url yields a relay that
// reports ErrNotConfigured.
func NewSlackRelay(url string) *SlackRelay {
	return &SlackRelay{url: url}
}

func (s *SlackRelay) Deliver(ctx context.Context, r reports.Report) error {
	if s.url == "" {
		return ErrNotConfigured
	}

	p := NewPayload(r)
	msg := &slack.WebhookMessage{
		Text: fmt.Sprintf("New %s report (severity %d/10)", p.Department, p.Severity),
		Attachments: []slack.Attachment{{
			Color: severityColor(p.Severity),
			Fields: []slack.AttachmentField{
				{Title: "Issue", Value: p.Issue},
				{Title: "Location", Value: p.Location, Short: true},
				{Title: "Department", Value: p.Department, Short: true},
			},
		}},
	}
	if err := slack.PostWebhookContext(ctx, s.url, msg); err != nil {
		return fmt.Errorf("posting slack webhook: %w", err)
	}
	return nil
}

func severityColor(n int) string {
	switch {
	case n >= 8:
		return "danger"
	case n >= 5:
		return "warning"
	default:
		return "good"
	}
}
