// Package api holds the JSON wire types of the HTTP API, shared by the server and its clients.
package api

import (
	"github.com/kailas-cloud/netquery/internal/domain/connection"
	"github.com/kailas-cloud/netquery/internal/domain/recommendation"
	"github.com/kailas-cloud/netquery/internal/usecase/integration"
)

// Routes.
const (
	PathQuery    = "/query"
	PathCRMQuery = "/integrations/crm/query"
	PathHealth   = "/health"
	PathMetrics  = "/metrics"
)

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Query       string `json:"query" validate:"required"`
	CompanyName string `json:"companyName" validate:"required"`
	RequesterID string `json:"requesterId,omitempty" validate:"omitempty,max=255"`
}

// Connection is the wire shape of a ranked connection.
type Connection struct {
	Name           string  `json:"name"`
	Company        string  `json:"company"`
	Position       string  `json:"position"`
	Email          string  `json:"email"`
	LinkedInURL    string  `json:"linkedin_url"`
	RelevanceScore float64 `json:"relevance_score"`
	Summary        string  `json:"summary"`
}

// QueryResponse is the 200 body of POST /query.
type QueryResponse struct {
	Success         bool                  `json:"success"`
	Query           string                `json:"query"`
	CompanyID       string                `json:"companyId"`
	Response        string                `json:"response"`
	Connections     []Connection          `json:"connections"`
	Recommendations []recommendation.View `json:"recommendations"`
	TotalResults    int                   `json:"totalResults"`
}

// CRMQueryRequest is the body of POST /integrations/crm/query.
type CRMQueryRequest struct {
	Query            string `json:"query" validate:"required"`
	CompanyName      string `json:"companyName" validate:"required"`
	ExternalUserID   string `json:"externalUserId" validate:"required"`
	ExternalOrgID    string `json:"externalOrgId,omitempty"`
	ExternalRecordID string `json:"externalRecordId,omitempty"`
}

// CRMQueryResponse is the 200 body of POST /integrations/crm/query.
type CRMQueryResponse struct {
	Success bool                 `json:"success"`
	Data    integration.Envelope `json:"data"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ConnectionsToAPI converts ranked connections, preserving order.
func ConnectionsToAPI(cs []connection.Connection) []Connection {
	out := make([]Connection, 0, len(cs))
	for _, c := range cs {
		out = append(out, Connection{
			Name:           c.Name,
			Company:        c.Company,
			Position:       c.Position,
			Email:          c.Email,
			LinkedInURL:    c.LinkedInURL,
			RelevanceScore: c.RelevanceScore,
			Summary:        c.Summary,
		})
	}
	return out
}

// ConnectionsFromAPI is the inverse of ConnectionsToAPI.
func ConnectionsFromAPI(cs []Connection) []connection.Connection {
	out := make([]connection.Connection, 0, len(cs))
	for _, c := range cs {
		out = append(out, connection.Connection(c))
	}
	return out
}
