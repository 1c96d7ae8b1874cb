package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const defaultEndpoint = "https://api.line.me"

// Client talks to the LINE Messaging API on behalf of one channel.
type Client struct {
	// Endpoint is overridable for tests.
	Endpoint string

	token  string
	client *http.Client
}

// NewClient builds a client authenticated with the channel access token.
// The broadcast call is deliberately not retried at this layer: a duplicate
// broadcast reaches every subscriber, so the retry key plus a single attempt
// is the whole delivery policy.
func NewClient(channelAccessToken string) *Client {
	return &Client{
		Endpoint: defaultEndpoint,
		token:    channelAccessToken,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

type flexMessage struct {
	Type     string `json:"type"`
	AltText  string `json:"altText"`
	Contents Bubble `json:"contents"`
}

type broadcastRequest struct {
	Messages []flexMessage `json:"messages"`
}

// Broadcast sends one flex message to all subscribers of the channel.
func (c *Client) Broadcast(ctx context.Context, altText string, contents Bubble) error {
	body, err := json.Marshal(broadcastRequest{
		Messages: []flexMessage{{Type: "flex", AltText: altText, Contents: contents}},
	})
	if err != nil {
		return fmt.Errorf("encode broadcast payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint+"/v2/bot/message/broadcast", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create broadcast request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Line-Retry-Key", uuid.New().String())

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("broadcast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("broadcast returned status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}
