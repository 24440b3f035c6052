// Package upstream calls the primary query endpoint of a netquery server over HTTP.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kailas-cloud/netquery/internal/domain"
	"github.com/kailas-cloud/netquery/internal/transport/api"
	"github.com/kailas-cloud/netquery/internal/usecase/integration"
	"github.com/kailas-cloud/netquery/internal/version"
)

const (
	defaultTimeout = 30 * time.Second
	maxErrorBody   = 4 << 10
)

// Config configures the client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client implements integration.Upstream against POST /query.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ integration.Upstream = (*Client)(nil)

// New creates a client. httpClient may be nil.
func New(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
	}
}

// Query posts req and decodes the answer.
// 400 maps to domain.ErrInvalidInput, 404 to domain.ErrScopeNotFound,
// anything else unexpected to domain.ErrDownstreamCallFailed.
func (c *Client) Query(ctx context.Context, req integration.UpstreamRequest) (integration.Answer, error) {
	body, err := json.Marshal(api.QueryRequest{
		Query:       req.Query,
		CompanyName: req.CompanyName,
		RequesterID: req.RequesterID,
	})
	if err != nil {
		return integration.Answer{}, fmt.Errorf("marshal query: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+api.PathQuery, bytes.NewReader(body))
	if err != nil {
		return integration.Answer{}, fmt.Errorf("%w: create request: %w", domain.ErrDownstreamCallFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", version.UserAgent("crm"))
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return integration.Answer{}, fmt.Errorf("%w: execute request: %w", domain.ErrDownstreamCallFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return integration.Answer{}, statusError(resp)
	}

	var qr api.QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return integration.Answer{}, fmt.Errorf("%w: decode response: %w", domain.ErrDownstreamCallFailed, err)
	}
	if !qr.Success {
		return integration.Answer{}, fmt.Errorf("%w: upstream reported failure", domain.ErrDownstreamCallFailed)
	}

	return integration.Answer{
		CompanyID:    qr.CompanyID,
		Summary:      qr.Response,
		Connections:  api.ConnectionsFromAPI(qr.Connections),
		TotalResults: qr.TotalResults,
	}, nil
}

func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var er api.ErrorResponse
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &er) == nil && er.Error != "" {
		msg = er.Error
		if er.Details != "" {
			msg += ": " + er.Details
		}
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: upstream: %s", domain.ErrInvalidInput, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: upstream: %s", domain.ErrScopeNotFound, msg)
	default:
		return fmt.Errorf("%w: status %d: %s", domain.ErrDownstreamCallFailed, resp.StatusCode, msg)
	}
}
