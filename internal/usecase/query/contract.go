package query

import (
	"context"

	domaudit "github.com/kailas-cloud/netquery/internal/domain/audit"
	"github.com/kailas-cloud/netquery/internal/domain/connection"
	"github.com/kailas-cloud/netquery/internal/domain/match"
	"github.com/kailas-cloud/netquery/internal/domain/recommendation"
	"github.com/kailas-cloud/netquery/internal/domain/scope"
)

// Retriever fetches raw nearest-neighbour matches for a question.
type Retriever interface {
	Retrieve(ctx context.Context, text, companyName string, k int) (scope.Scope, []match.RawMatch, error)
}

// Ranker turns raw matches into ranked connections.
type Ranker interface {
	Rank(raw []match.RawMatch) ([]connection.Connection, error)
}

// Summarizer renders the narrative answer.
type Summarizer interface {
	Summarize(query string, ranked []connection.Connection) string
}

// Recommender derives sales recommendations.
type Recommender interface {
	Recommend(ranked []connection.Connection) []recommendation.Recommendation
}

// Auditor records answered queries without blocking.
type Auditor interface {
	Dispatch(ctx context.Context, e domaudit.Event)
}
