// Package ranking turns raw nearest-neighbour matches into scored, ordered connections.
package ranking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/netquery/internal/domain"
	"github.com/kailas-cloud/netquery/internal/domain/connection"
	"github.com/kailas-cloud/netquery/internal/domain/match"
	"github.com/kailas-cloud/netquery/internal/usecase/relevance"
)

// Ranker normalizes distances, validates metadata and sorts by relevance.
type Ranker struct {
	logger     *zap.Logger
	outOfRange prometheus.Counter
}

// New creates a ranker. outOfRange counts clamped scores and may be nil.
func New(logger *zap.Logger, outOfRange prometheus.Counter) *Ranker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{logger: logger, outOfRange: outOfRange}
}

// Rank converts matches into connections sorted by descending relevance.
// Equal scores keep retrieval order. A match missing required metadata fails
// the whole batch with domain.ErrMalformedMatch.
func (r *Ranker) Rank(raw []match.RawMatch) ([]connection.Connection, error) {
	out := make([]connection.Connection, 0, len(raw))
	for _, m := range raw {
		c, err := r.format(m)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RelevanceScore > out[j].RelevanceScore
	})
	return out, nil
}

func (r *Ranker) format(m match.RawMatch) (connection.Connection, error) {
	if missing := m.MissingKeys(); len(missing) > 0 {
		return connection.Connection{}, fmt.Errorf("%w: %s lacks %s",
			domain.ErrMalformedMatch, m.Key(), strings.Join(missing, ", "))
	}

	score, clamped := relevance.Clip(relevance.Normalize(m.Distance()))
	if clamped {
		r.logger.Warn("Relevance score out of range",
			zap.String("key", m.Key()),
			zap.Float64("distance", m.Distance()),
			zap.Float64("clamped_to", score),
		)
		if r.outOfRange != nil {
			r.outOfRange.Inc()
		}
	}

	meta := m.Metadata()
	return connection.Connection{
		Name:           strings.TrimSpace(meta[match.KeyFirstName] + " " + meta[match.KeyLastName]),
		Company:        meta[match.KeyCompany],
		Position:       meta[match.KeyPosition],
		Email:          meta[match.KeyEmail],
		LinkedInURL:    meta[match.KeyLinkedInURL],
		RelevanceScore: score,
		Summary:        m.Document(),
	}, nil
}
