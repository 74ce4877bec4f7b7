package textmagic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wefitness/signup/pkg/logger"
)

// DefaultBaseURL is the TextMagic REST endpoint.
const DefaultBaseURL = "https://rest.textmagic.com/api/v2"

// Client defines the interface for interacting with TextMagic API
type Client interface {
	SendMessage(ctx context.Context, phone, message string) (string, error)
}

type clientImpl struct {
	apiKey     string
	username   string
	baseURL    string
	httpClient *http.Client
}

// Option customizes a client.
type Option func(*clientImpl)

// WithBaseURL points the client at another endpoint, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(c *clientImpl) { c.baseURL = u }
}

// NewClient creates a new TextMagic client
func NewClient(username, apiKey string, opts ...Option) Client {
	c := &clientImpl{
		apiKey:     apiKey,
		username:   username,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendMessage texts message to phone, given as digits with country code, and
// returns the TextMagic message id.
func (c *clientImpl) SendMessage(ctx context.Context, phone, message string) (string, error) {
	payload := map[string]interface{}{
		"phones": phone,
		"text":   message,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.SetBasicAuth(c.username, c.apiKey)
	req.Header.Add("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error sending message: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("error from TextMagic API (%d): %s", resp.StatusCode, string(body))
	}

	var response struct {
		ID        int `json:"id"`
		MessageID int `json:"messageId"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}

	id := response.MessageID
	if id == 0 {
		id = response.ID
	}
	messageID := fmt.Sprintf("%d", id)
	logger.Info("Sent TextMagic message %s", messageID)
	return messageID, nil
}
