// Copyright 2026 Crenna Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package tracking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to a run-tracking server over its JSON HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ Tracker = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the bearer token sent with every request.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient creates a tracking client for the server at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// startRunRequest is the body for POST /api/runs.
type startRunRequest struct {
	Name   string            `json:"name"`
	Params map[string]string `json:"params,omitempty"`
}

// logMetricRequest is the body for POST /api/runs/{id}/metrics.
type logMetricRequest struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// StartRun implements Tracker.
func (c *Client) StartRun(ctx context.Context, name string, params map[string]string) (*Run, error) {
	var run Run
	err := c.do(ctx, http.MethodPost, "/api/runs", startRunRequest{Name: name, Params: params}, &run)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// LogMetric implements Tracker.
func (c *Client) LogMetric(ctx context.Context, runID, key string, value float64) error {
	return c.do(ctx, http.MethodPost, "/api/runs/"+runID+"/metrics", logMetricRequest{Key: key, Value: value}, nil)
}

// LogTable implements Tracker.
func (c *Client) LogTable(ctx context.Context, runID string, table *Table) error {
	return c.do(ctx, http.MethodPost, "/api/runs/"+runID+"/tables", table, nil)
}

// FinishRun implements Tracker.
func (c *Client) FinishRun(ctx context.Context, runID string) error {
	return c.do(ctx, http.MethodPost, "/api/runs/"+runID+"/finish", nil, nil)
}

// GetRun implements Tracker.
func (c *Client) GetRun(ctx context.Context, runID string) (*Run, error) {
	var run Run
	if err := c.do(ctx, http.MethodGet, "/api/runs/"+runID, nil, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// GetMetrics implements Tracker.
func (c *Client) GetMetrics(ctx context.Context, runID string) ([]Metric, error) {
	var metrics []Metric
	if err := c.do(ctx, http.MethodGet, "/api/runs/"+runID+"/metrics", nil, &metrics); err != nil {
		return nil, err
	}
	return metrics, nil
}

// GetTables implements Tracker.
func (c *Client) GetTables(ctx context.Context, runID string) ([]*Table, error) {
	var tables []*Table
	if err := c.do(ctx, http.MethodGet, "/api/runs/"+runID+"/tables", nil, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// do sends one JSON request and decodes the response into out when out
// is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrRunNotFound, path)
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrRunFinished, path)
	case resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
