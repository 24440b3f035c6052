// Package query defines a natural-language question over a company network and its answer.
package query

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/netquery/internal/domain"
	"github.com/kailas-cloud/netquery/internal/domain/connection"
	"github.com/kailas-cloud/netquery/internal/domain/recommendation"
	"github.com/kailas-cloud/netquery/internal/domain/scope"
)

// Query is a validated question scoped to one company.
type Query struct {
	text        string
	companyName string
	requesterID string
}

// New validates and creates a query. text and companyName are trimmed and must be non-empty.
func New(text, companyName, requesterID string) (Query, error) {
	text = strings.TrimSpace(text)
	companyName = strings.TrimSpace(companyName)
	if text == "" {
		return Query{}, fmt.Errorf("%w: query text is required", domain.ErrInvalidInput)
	}
	if companyName == "" {
		return Query{}, fmt.Errorf("%w: company name is required", domain.ErrInvalidInput)
	}
	return Query{text: text, companyName: companyName, requesterID: requesterID}, nil
}

// Text returns the question.
func (q Query) Text() string { return q.text }

// CompanyName returns the company whose network is searched.
func (q Query) CompanyName() string { return q.companyName }

// RequesterID returns the opaque caller identity recorded with audit events.
func (q Query) RequesterID() string { return q.requesterID }

// Result is the answer to a query.
type Result struct {
	Query           string
	Scope           scope.Scope
	Connections     []connection.Connection
	Summary         string
	Recommendations []recommendation.Recommendation
}

// TotalResults returns the number of ranked connections.
func (r Result) TotalResults() int { return len(r.Connections) }
