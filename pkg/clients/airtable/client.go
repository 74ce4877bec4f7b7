package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/wefitness/signup/pkg/logger"
)

// DefaultBaseURL is the Airtable REST endpoint.
const DefaultBaseURL = "https://api.airtable.com/v0"

// Client defines the interface for interacting with Airtable API
type Client interface {
	FindRecord(ctx context.Context, table, phoneHash string) (string, error)
	CreateRecord(ctx context.Context, table string, data map[string]interface{}) (string, error)
}

type clientImpl struct {
	apiKey     string
	baseID     string
	baseURL    string
	httpClient *http.Client
}

// Option customizes a client.
type Option func(*clientImpl)

// WithBaseURL points the client at another endpoint, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(c *clientImpl) { c.baseURL = u }
}

// NewClient creates a new Airtable client
func NewClient(apiKey, baseID string, opts ...Option) Client {
	c := &clientImpl{
		apiKey:     apiKey,
		baseID:     baseID,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type recordsResponse struct {
	Records []struct {
		ID string `json:"id"`
	} `json:"records"`
}

// FindRecord returns the id of the record whose hash field equals phoneHash,
// or an empty string when there is none.
func (c *clientImpl) FindRecord(ctx context.Context, table, phoneHash string) (string, error) {
	query := url.Values{}
	query.Set("filterByFormula", fmt.Sprintf("{hash}=%q", phoneHash))
	query.Set("maxRecords", "1")
	endpoint := fmt.Sprintf("%s/%s/%s?%s", c.baseURL, c.baseID, url.PathEscape(table), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Add("Authorization", "Bearer "+c.apiKey)

	var response recordsResponse
	if err := c.do(req, &response); err != nil {
		return "", fmt.Errorf("error checking Airtable: %w", err)
	}

	if len(response.Records) == 0 {
		logger.Debug("Airtable lookup for hash %s in table %s: no record", phoneHash, table)
		return "", nil
	}
	logger.Debug("Airtable lookup for hash %s in table %s: found %s", phoneHash, table, response.Records[0].ID)
	return response.Records[0].ID, nil
}

// CreateRecord inserts one record and returns its id.
func (c *clientImpl) CreateRecord(ctx context.Context, table string, data map[string]interface{}) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, c.baseID, url.PathEscape(table))

	payload := map[string]interface{}{
		"records": []map[string]interface{}{
			{"fields": data},
		},
		"typecast": true,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Add("Authorization", "Bearer "+c.apiKey)
	req.Header.Add("Content-Type", "application/json")

	var response recordsResponse
	if err := c.do(req, &response); err != nil {
		return "", fmt.Errorf("error creating Airtable record: %w", err)
	}
	if len(response.Records) == 0 {
		return "", fmt.Errorf("error from Airtable API: no record returned")
	}

	logger.Info("Created record %s in Airtable table: %s", response.Records[0].ID, table)
	return response.Records[0].ID, nil
}

func (c *clientImpl) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("error from Airtable API (%d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("error parsing response: %w", err)
	}
	return nil
}
