package integration

import (
	"context"

	domaudit "github.com/kailas-cloud/netquery/internal/domain/audit"
	"github.com/kailas-cloud/netquery/internal/domain/connection"
	domquery "github.com/kailas-cloud/netquery/internal/domain/query"
	"github.com/kailas-cloud/netquery/internal/domain/recommendation"
)

// UpstreamRequest is the primary query forwarded upstream.
type UpstreamRequest struct {
	Query       string
	CompanyName string
	RequesterID string
}

// Answer is what the primary query returns to the integration.
type Answer struct {
	CompanyID    string
	Summary      string
	Connections  []connection.Connection
	TotalResults int
}

// Upstream runs the primary query.
type Upstream interface {
	Query(ctx context.Context, req UpstreamRequest) (Answer, error)
}

// QueryHandler is the in-process orchestrator.
type QueryHandler interface {
	Handle(ctx context.Context, q domquery.Query) (domquery.Result, error)
}

// Recommender derives sales recommendations.
type Recommender interface {
	Recommend(ranked []connection.Connection) []recommendation.Recommendation
}

// Auditor records answered queries without blocking.
type Auditor interface {
	Dispatch(ctx context.Context, e domaudit.Event)
}
