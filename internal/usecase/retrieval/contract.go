package retrieval

import (
	"context"

	"github.com/kailas-cloud/netquery/internal/domain"
	"github.com/kailas-cloud/netquery/internal/domain/match"
	"github.com/kailas-cloud/netquery/internal/domain/scope"
)

// Resolver maps a company name to its contact collection.
type Resolver interface {
	Resolve(ctx context.Context, companyName string) (scope.Scope, error)
}

// Repository runs nearest-neighbour lookups within a collection.
type Repository interface {
	SearchKNN(ctx context.Context, collection string, vector []float32, topK int) ([]match.RawMatch, error)
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
