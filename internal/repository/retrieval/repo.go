// Package retrieval runs nearest-neighbour lookups over a contact collection.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/netquery/internal/db"
	"github.com/kailas-cloud/netquery/internal/domain"
	"github.com/kailas-cloud/netquery/internal/domain/match"
)

// contentField holds the text each contact embedding was computed from.
const contentField = "__content"

// store is the consumer interface for KNN search (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements usecase/retrieval.Repository.
type Repo struct {
	store        store
	returnFields []string
}

// New creates a retrieval repository.
func New(s store) *Repo {
	fields := make([]string, 0, len(match.MetadataKeys)+2)
	fields = append(fields, contentField)
	fields = append(fields, match.MetadataKeys...)
	fields = append(fields, db.ScoreField)
	return &Repo{store: s, returnFields: fields}
}

// SearchKNN returns up to topK raw matches from collection, nearest first.
// Store failures and malformed replies are reported as domain.ErrRetrievalUnavailable.
func (r *Repo) SearchKNN(
	ctx context.Context, collection string, vector []float32, topK int,
) ([]match.RawMatch, error) {
	q := &db.KNNQuery{
		IndexName:    domain.IndexName(collection),
		Vector:       vector,
		K:            topK,
		ReturnFields: r.returnFields,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: search knn %s: %w", domain.ErrRetrievalUnavailable, collection, err)
	}
	return toRawMatches(sr, collection), nil
}

func toRawMatches(sr *db.SearchResult, collection string) []match.RawMatch {
	if sr == nil || len(sr.Entries) == 0 {
		return []match.RawMatch{}
	}

	prefix := domain.DocumentPrefix(collection)
	out := make([]match.RawMatch, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		var document string
		metadata := make(map[string]string, len(entry.Fields))
		for k, v := range entry.Fields {
			if k == contentField {
				document = v
				continue
			}
			metadata[k] = v
		}
		out = append(out, match.New(strings.TrimPrefix(entry.Key, prefix), document, metadata, entry.Distance))
	}
	return out
}
