package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kailas-cloud/netquery/internal/domain"
	"github.com/kailas-cloud/netquery/internal/transport/api"
	"github.com/kailas-cloud/netquery/internal/usecase/integration"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/", APIKey: "secret"}, nil)
}

func TestQuery_Success(t *testing.T) {
	var got api.QueryRequest
	var auth, path string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.QueryResponse{
			Success:   true,
			Query:     "q",
			CompanyID: "c-42",
			Response:  "Based on...",
			Connections: []api.Connection{
				{Name: "Ada Lovelace", Company: "Acme", Position: "CTO", LinkedInURL: "https://l/ada", RelevanceScore: 0.9},
			},
			TotalResults: 1,
		})
	})

	ans, err := c.Query(context.Background(), integration.UpstreamRequest{Query: "q", CompanyName: "Acme", RequesterID: "u-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/query" {
		t.Errorf("unexpected path %s", path)
	}
	if auth != "Bearer secret" {
		t.Errorf("unexpected auth header %q", auth)
	}
	if got.CompanyName != "Acme" || got.RequesterID != "u-1" {
		t.Errorf("unexpected request body %+v", got)
	}
	if ans.CompanyID != "c-42" || ans.TotalResults != 1 || ans.Summary != "Based on..." {
		t.Errorf("unexpected answer %+v", ans)
	}
	if ans.Connections[0].LinkedInURL != "https://l/ada" || ans.Connections[0].RelevanceScore != 0.9 {
		t.Errorf("unexpected connection %+v", ans.Connections[0])
	}
}

func TestQuery_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, domain.ErrInvalidInput},
		{http.StatusNotFound, domain.ErrScopeNotFound},
		{http.StatusInternalServerError, domain.ErrDownstreamCallFailed},
		{http.StatusUnauthorized, domain.ErrDownstreamCallFailed},
	}
	for _, tc := range tests {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "boom", Details: "why"})
			})

			_, err := c.Query(context.Background(), integration.UpstreamRequest{Query: "q", CompanyName: "Acme"})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestQuery_UnsuccessfulBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false})
	})

	_, err := c.Query(context.Background(), integration.UpstreamRequest{Query: "q", CompanyName: "Acme"})
	if !errors.Is(err, domain.ErrDownstreamCallFailed) {
		t.Fatalf("expected ErrDownstreamCallFailed, got %v", err)
	}
}

func TestQuery_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := New(Config{BaseURL: srv.URL}, nil)

	_, err := c.Query(context.Background(), integration.UpstreamRequest{Query: "q", CompanyName: "Acme"})
	if !errors.Is(err, domain.ErrDownstreamCallFailed) {
		t.Fatalf("expected ErrDownstreamCallFailed, got %v", err)
	}
}

func TestQuery_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	})

	_, err := c.Query(context.Background(), integration.UpstreamRequest{Query: "q", CompanyName: "Acme"})
	if !errors.Is(err, domain.ErrDownstreamCallFailed) {
		t.Fatalf("expected ErrDownstreamCallFailed, got %v", err)
	}
}
