// Package notify delivers in-stock alerts.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Alert is the fixed content of an in-stock notification
type Alert struct {
	Title string // headline, e.g. "STEAM DECK OLED MAY BE BACK IN STOCK!"
	URL   string // product page
}

// Notifier sends an alert somewhere a human will see it
type Notifier interface {
	Send(ctx context.Context, alert Alert) error
}

// DiscordNotifier posts alerts to a Discord webhook
type DiscordNotifier struct {
	httpClient *http.Client
	webhookURL string
	username   string
}

// NewDiscordNotifier creates a notifier for the given webhook.
// timeout bounds each post independently of the page fetch timeout.
func NewDiscordNotifier(webhookURL, username string, timeout time.Duration) *DiscordNotifier {
	return &DiscordNotifier{
		httpClient: &http.Client{Timeout: timeout},
		webhookURL: webhookURL,
		username:   username,
	}
}

// webhookPayload is the subset of Discord's execute-webhook body we use
type webhookPayload struct {
	Content  string `json:"content"`
	Username string `json:"username,omitempty"`
}

// Send posts the alert. Any non-2xx response is an error.
func (n *DiscordNotifier) Send(ctx context.Context, alert Alert) error {
	body, err := json.Marshal(webhookPayload{
		Content:  FormatMessage(alert),
		Username: n.username,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned %s: %s", resp.Status, bytes.TrimSpace(snippet))
	}

	return nil
}

// FormatMessage renders the Discord message body for an alert
func FormatMessage(alert Alert) string {
	return fmt.Sprintf("🚨 **%s** 🚨\n\n👉 %s\n\n_Automated alert, verify before celebrating!_", alert.Title, alert.URL)
}
