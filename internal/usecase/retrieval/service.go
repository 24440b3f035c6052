// Package retrieval finds the contacts nearest to a question within one company's network.
package retrieval

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/netquery/internal/domain"
	"github.com/kailas-cloud/netquery/internal/domain/match"
	"github.com/kailas-cloud/netquery/internal/domain/scope"
)

// DefaultTopK is used when a caller passes k <= 0.
const DefaultTopK = 10

// Service resolves the scope, embeds the question and runs one KNN lookup.
type Service struct {
	resolver Resolver
	embed    Embedder
	repo     Repository
	topK     int
}

// New creates a retrieval service. topK <= 0 selects DefaultTopK.
func New(resolver Resolver, embed Embedder, repo Repository, topK int) *Service {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Service{resolver: resolver, embed: embed, repo: repo, topK: topK}
}

// TopK returns the configured result limit.
func (s *Service) TopK() int { return s.topK }

// Retrieve returns up to k raw matches for text within companyName's collection.
// k <= 0 selects the configured limit. Zero hits yield an empty slice.
func (s *Service) Retrieve(
	ctx context.Context, text, companyName string, k int,
) (scope.Scope, []match.RawMatch, error) {
	if k <= 0 {
		k = s.topK
	}

	sc, err := s.resolver.Resolve(ctx, companyName)
	if err != nil {
		return scope.Scope{}, nil, fmt.Errorf("resolve scope: %w", classify(ctx, err))
	}

	emb, err := s.embed.Embed(ctx, text)
	if err != nil {
		return sc, nil, fmt.Errorf("vectorize query: %w", unavailable(classify(ctx, err)))
	}

	raw, err := s.repo.SearchKNN(ctx, sc.Collection(), emb.Embedding, k)
	if err != nil {
		return sc, nil, fmt.Errorf("search knn: %w", classify(ctx, err))
	}
	return sc, raw, nil
}

// classify reports context expiry as unavailable, whatever the underlying error was.
func classify(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w: %v", domain.ErrRetrievalUnavailable, ctxErr, err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return unavailable(err)
	}
	return err
}

// unavailable wraps err as domain.ErrRetrievalUnavailable unless it already is.
func unavailable(err error) error {
	if errors.Is(err, domain.ErrRetrievalUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrRetrievalUnavailable, err)
}
