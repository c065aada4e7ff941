// Package pipelineclient calls the API's pipeline endpoints on behalf of
// schedulers (cron jobs, CI) that hold the pipeline API key.
package pipelineclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// RecomputeResult is the outcome reported by the API.
type RecomputeResult struct {
	Recomputed int    `json:"recomputed"`
	Error      string `json:"error,omitempty"`
}

// Client communicates with the pipeline API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a pipeline API client.
func New(baseURL, apiKey string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// RecomputeLedger asks the API to rebuild budget_used of every phase and
// returns how many were rebuilt. A partial run returns the count together
// with an error.
func (c *Client) RecomputeLedger(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/pipeline/ledger/recompute", nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("recomputing ledger: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusInternalServerError:
	default:
		return 0, fmt.Errorf("recomputing ledger: unexpected status %d", resp.StatusCode)
	}

	var result RecomputeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decoding recompute response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return result.Recomputed, fmt.Errorf("recomputing ledger: partial run: %s", result.Error)
	}
	return result.Recomputed, nil
}
