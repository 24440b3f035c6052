package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kailas-cloud/netquery/internal/transport/api"
	"github.com/kailas-cloud/netquery/internal/version"
)

type client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func newClient(baseURL, apiKey string, timeout time.Duration) *client {
	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *client) query(ctx context.Context, req api.QueryRequest) (api.QueryResponse, []byte, error) {
	var resp api.QueryResponse
	raw, err := c.post(ctx, api.PathQuery, req, &resp)
	return resp, raw, err
}

func (c *client) crmQuery(ctx context.Context, req api.CRMQueryRequest) (api.CRMQueryResponse, []byte, error) {
	var resp api.CRMQueryResponse
	raw, err := c.post(ctx, api.PathCRMQuery, req, &resp)
	return resp, raw, err
}

// post sends body as JSON and decodes a 200 into out. It returns the raw response body.
func (c *client) post(ctx context.Context, path string, body, out any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", version.UserAgent("ask"))
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var er api.ErrorResponse
		if json.Unmarshal(raw, &er) == nil && er.Error != "" {
			if er.Details != "" {
				return raw, fmt.Errorf("%s (%d): %s", er.Error, resp.StatusCode, er.Details)
			}
			return raw, fmt.Errorf("%s (%d)", er.Error, resp.StatusCode)
		}
		return raw, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return raw, fmt.Errorf("decode response: %w", err)
	}
	return raw, nil
}
