// Package scope resolves a company name to its contact collection in the vector store.
package scope

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/netquery/internal/domain"
	domscope "github.com/kailas-cloud/netquery/internal/domain/scope"
)

// Company metadata hash fields.
const (
	fieldCompanyID   = "id"
	fieldCompanyName = "name"
)

// store is the consumer interface for scope resolution (ISP).
type store interface {
	IndexExists(ctx context.Context, name string) (bool, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo implements usecase/retrieval.Resolver.
type Repo struct {
	store      store
	cache      *cache.Cache
	cacheTotal *prometheus.CounterVec
}

// New creates a resolver. ttl <= 0 disables the in-process cache.
// cacheTotal is a counter vec with label "result"; nil disables counting.
func New(s store, ttl time.Duration, cacheTotal *prometheus.CounterVec) *Repo {
	r := &Repo{store: s, cacheTotal: cacheTotal}
	if ttl > 0 {
		r.cache = cache.New(ttl, 2*ttl)
	}
	return r
}

// Resolve maps companyName to an existing collection.
// A collection without an index is reported as domain.ErrScopeNotFound.
func (r *Repo) Resolve(ctx context.Context, companyName string) (domscope.Scope, error) {
	collection := domscope.CollectionName(companyName)

	if r.cache != nil {
		if x, found := r.cache.Get(collection); found {
			r.inc("hit")
			return x.(domscope.Scope), nil
		}
		r.inc("miss")
	}

	exists, err := r.store.IndexExists(ctx, domain.IndexName(collection))
	if err != nil {
		return domscope.Scope{}, fmt.Errorf("%w: probe %s: %w", domain.ErrRetrievalUnavailable, collection, err)
	}
	if !exists {
		return domscope.Scope{}, fmt.Errorf("%w: %s", domain.ErrScopeNotFound, collection)
	}

	meta, err := r.store.HGetAll(ctx, domain.CompanyMetaKey(collection))
	if err != nil {
		return domscope.Scope{}, fmt.Errorf("%w: company meta %s: %w", domain.ErrRetrievalUnavailable, collection, err)
	}

	companyID := meta[fieldCompanyID]
	if companyID == "" {
		companyID = collection
	}
	name := companyName
	if n := meta[fieldCompanyName]; n != "" {
		name = n
	}

	s := domscope.New(companyID, name, collection)
	if r.cache != nil {
		r.cache.Set(collection, s, cache.DefaultExpiration)
	}
	return s, nil
}

func (r *Repo) inc(result string) {
	if r.cacheTotal != nil {
		r.cacheTotal.WithLabelValues(result).Inc()
	}
}
