package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"edinet_notifier/internal/infra/httpretry"
)

type message struct {
	Text string `json:"text"`
}

// WebhookNotifier posts messages to a Slack incoming webhook.
type WebhookNotifier struct {
	url  string
	http *httpretry.Client
}

func NewWebhookNotifier(url string, httpClient *httpretry.Client) *WebhookNotifier {
	return &WebhookNotifier{url: url, http: httpClient}
}

// Notify sends text as a single message.
func (n *WebhookNotifier) Notify(ctx context.Context, text string) error {
	if n.url == "" {
		return fmt.Errorf("slack webhook URL is missing")
	}
	payload, err := json.Marshal(message{Text: text})
	if err != nil {
		return fmt.Errorf("error encoding slack message: %w", err)
	}

	resp, err := n.http.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("slack notification failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack notification failed: unexpected status %d", resp.StatusCode)
	}
	return nil
}
