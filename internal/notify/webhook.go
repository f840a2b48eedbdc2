package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ziadkadry99/city-intake/internal/reports"
)

// WebhookRelay POSTs the flat report payload to a URL.
type WebhookRelay struct {
	url    string
	client *http.Client
}

// NewWebhookRelay creates a WebhookRelay. An empty url yields a relay that
// reports ErrNotConfigured.
func NewWebhookRelay(url string, timeout time.Duration) *WebhookRelay {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookRelay{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (w *WebhookRelay) Deliver(ctx context.Context, r reports.Report) error {
	if w.url == "" {
		return ErrNotConfigured
	}

	payload, err := json.Marshal(NewPayload(r))
	if err != nil {
		return fmt.Errorf("marshalling webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return statusError("webhook", resp.StatusCode, string(body))
	}
	return nil
}
