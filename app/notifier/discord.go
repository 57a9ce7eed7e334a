package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lysyi3m/market-radar/app/analyzer"
	"github.com/lysyi3m/market-radar/app/feed"
)

var (
	ErrNotConfigured = errors.New("discord webhook not configured")
	ErrRateLimited   = errors.New("discord rate limited")
)

const maxErrorLength = 1000

// Discord posts messages and embeds to a webhook. Delivery is best effort:
// failures are returned to the caller and never retried.
type Discord struct {
	webhookURL string
	timeout    time.Duration
	httpClient *http.Client
}

func NewDiscord(webhookURL string, timeout time.Duration, httpClient *http.Client) *Discord {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Discord{
		webhookURL: webhookURL,
		timeout:    timeout,
		httpClient: httpClient,
	}
}

func (d *Discord) Enabled() bool {
	return d.webhookURL != ""
}

type payload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

// SendAnalysisAlert posts a rich embed for a classified news item.
func (d *Discord) SendAnalysisAlert(ctx context.Context, item feed.NewsItem, result *analyzer.Result) error {
	return d.send(ctx, payload{Embeds: []Embed{BuildEmbed(item, result)}})
}

func (d *Discord) SendStartup(ctx context.Context, info StartupInfo) error {
	return d.SendMessage(ctx, info.Message())
}

func (d *Discord) SendMessage(ctx context.Context, content string) error {
	return d.send(ctx, payload{Content: content})
}

// SendErrorAlert posts msg inside a code block, truncated to 1000 characters.
func (d *Discord) SendErrorAlert(ctx context.Context, msg string) error {
	return d.SendMessage(ctx, fmt.Sprintf("⚠️ **Error**\n```\n%s\n```", feed.Truncate(msg, maxErrorLength)))
}

func (d *Discord) send(ctx context.Context, p payload) error {
	if !d.Enabled() {
		slog.Debug("Discord webhook not configured, skipping")
		return ErrNotConfigured
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("discord webhook error: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK:
		slog.Debug("Discord notification sent")
		return nil
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("discord returned %d", resp.StatusCode)
	}
}
