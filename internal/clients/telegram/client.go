// Package telegram pushes review notifications through the Telegram
// Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const maxRetries = 3

// Client sends messages to one configured chat
type Client struct {
	botToken string
	chatID   string
	client   *http.Client
	log      zerolog.Logger
}

// NewClient creates a Telegram client
func NewClient(botToken, chatID string, log zerolog.Logger) *Client {
	return &Client{
		botToken: botToken,
		chatID:   chatID,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("client", "telegram").Logger(),
	}
}

// Send sends one message to the configured chat (HTML parse mode)
func (c *Client) Send(ctx context.Context, text string) error {
	apiURL := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", c.botToken)
	payload := map[string]string{
		"chat_id":    c.chatID,
		"text":       text,
		"parse_mode": "HTML",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// NotifyReview sends the run summary with exponential backoff retry
func (c *Client) NotifyReview(ctx context.Context, message string) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := c.Send(ctx, message); err != nil {
			lastErr = err
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			c.log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Dur("backoff", backoff).
				Msg("Telegram send failed")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all %d attempts exhausted: %w", maxRetries, lastErr)
}
