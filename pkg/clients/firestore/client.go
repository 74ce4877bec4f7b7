// Package firestore is a minimal client for the Cloud Firestore REST API,
// limited to what the signup flow needs: creating documents.
package firestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/wefitness/signup/pkg/logger"
)

// DefaultBaseURL is the public Firestore REST endpoint.
const DefaultBaseURL = "https://firestore.googleapis.com/v1"

// Client defines the interface for interacting with Firestore
type Client interface {
	CreateDocument(ctx context.Context, collection string, data map[string]interface{}) (string, error)
}

type clientImpl struct {
	apiKey     string
	projectID  string
	baseURL    string
	httpClient *http.Client
}

// Option customizes a client.
type Option func(*clientImpl)

// WithBaseURL points the client at another endpoint, e.g. the emulator.
func WithBaseURL(u string) Option {
	return func(c *clientImpl) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// NewClient creates a new Firestore client
func NewClient(apiKey, projectID string, opts ...Option) Client {
	c := &clientImpl{
		apiKey:     apiKey,
		projectID:  projectID,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateDocument stores data in collection under a generated id and returns
// that id.
func (c *clientImpl) CreateDocument(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	endpoint := fmt.Sprintf("%s/projects/%s/databases/(default)/documents/%s?key=%s",
		c.baseURL, url.PathEscape(c.projectID), url.PathEscape(collection), url.QueryEscape(c.apiKey))

	jsonPayload, err := json.Marshal(map[string]interface{}{"fields": EncodeFields(data)})
	if err != nil {
		return "", fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Add("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error creating Firestore document: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("error from Firestore API (%d): %s", resp.StatusCode, string(body))
	}

	var response struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}
	if response.Name == "" {
		return "", fmt.Errorf("error from Firestore API: document name missing")
	}

	id := path.Base(response.Name)
	logger.Info("Created Firestore document %s in collection %s", id, collection)
	return id, nil
}
