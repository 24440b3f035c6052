// Package query orchestrates one network question end to end.
package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kailas-cloud/netquery/internal/domain"
	domaudit "github.com/kailas-cloud/netquery/internal/domain/audit"
	"github.com/kailas-cloud/netquery/internal/domain/match"
	domquery "github.com/kailas-cloud/netquery/internal/domain/query"
	"github.com/kailas-cloud/netquery/internal/domain/scope"
	"github.com/kailas-cloud/netquery/internal/metrics"
)

// EndpointQuery labels metrics of the primary query path.
const EndpointQuery = "query"

// Pipeline stages reported in domain.QueryError.
const (
	StageValidate = "validate"
	StageRetrieve = "retrieve"
	StageRank     = "rank"
	StageAssemble = "assemble"
)

const (
	tracerName     = "github.com/kailas-cloud/netquery/internal/usecase/query"
	defaultBackoff = 100 * time.Millisecond
)

// RetryPolicy controls orchestrator-level retries of unavailable retrieval.
// Attempts <= 1 disables retrying.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// Service runs validate, retrieve, rank, summarize, recommend and audit.
type Service struct {
	retriever   Retriever
	ranker      Ranker
	summarizer  Summarizer
	recommender Recommender
	auditor     Auditor
	retry       RetryPolicy
	tracer      trace.Tracer
}

// New creates an orchestrator. A nil auditor disables auditing.
func New(
	retriever Retriever, ranker Ranker, summarizer Summarizer,
	recommender Recommender, auditor Auditor, retry RetryPolicy,
) *Service {
	if retry.Backoff <= 0 {
		retry.Backoff = defaultBackoff
	}
	return &Service{
		retriever:   retriever,
		ranker:      ranker,
		summarizer:  summarizer,
		recommender: recommender,
		auditor:     auditor,
		retry:       retry,
		tracer:      otel.Tracer(tracerName),
	}
}

// Handle answers q. Failures are *domain.QueryError; no audit event is emitted for them.
func (s *Service) Handle(ctx context.Context, q domquery.Query) (domquery.Result, error) {
	ctx, span := s.tracer.Start(ctx, "query.Handle",
		trace.WithAttributes(attribute.String("company.name", q.CompanyName())))
	defer span.End()

	start := time.Now()
	res, err := s.run(ctx, q)
	metrics.QueryDuration.WithLabelValues(EndpointQuery).Observe(time.Since(start).Seconds())

	if err != nil {
		kind := domain.KindOf(err)
		metrics.QueriesTotal.WithLabelValues(EndpointQuery, string(kind)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, string(kind))
		return domquery.Result{}, err
	}

	metrics.QueriesTotal.WithLabelValues(EndpointQuery, "ok").Inc()
	metrics.QueryConnections.Observe(float64(res.TotalResults()))
	span.SetAttributes(
		attribute.String("company.id", res.Scope.CompanyID()),
		attribute.Int("connections", res.TotalResults()),
	)
	return res, nil
}

func (s *Service) run(ctx context.Context, q domquery.Query) (domquery.Result, error) {
	if q.Text() == "" || q.CompanyName() == "" {
		return domquery.Result{}, domain.NewQueryError(StageValidate,
			fmt.Errorf("%w: query and company name are required", domain.ErrInvalidInput))
	}

	sc, raw, err := s.retrieve(ctx, q)
	if err != nil {
		return domquery.Result{}, domain.NewQueryError(StageRetrieve, err)
	}

	ranked, err := s.ranker.Rank(raw)
	if err != nil {
		return domquery.Result{}, domain.NewQueryError(StageRank, err)
	}

	if err := ctx.Err(); err != nil {
		return domquery.Result{}, domain.NewQueryError(StageAssemble,
			fmt.Errorf("%w: %w", domain.ErrRetrievalUnavailable, err))
	}

	res := domquery.Result{
		Query:           q.Text(),
		Scope:           sc,
		Connections:     ranked,
		Summary:         s.summarizer.Summarize(q.Text(), ranked),
		Recommendations: s.recommender.Recommend(ranked),
	}

	if s.auditor != nil {
		s.auditor.Dispatch(ctx, domaudit.NewEvent(sc.CompanyID(), q.Text(), res.Summary, q.RequesterID()))
	}
	return res, nil
}

type hits struct {
	scope scope.Scope
	raw   []match.RawMatch
}

// retrieve calls the retriever, retrying only domain.ErrRetrievalUnavailable.
func (s *Service) retrieve(ctx context.Context, q domquery.Query) (scope.Scope, []match.RawMatch, error) {
	op := func() (hits, error) {
		sc, raw, err := s.retriever.Retrieve(ctx, q.Text(), q.CompanyName(), 0)
		if err != nil {
			if !errors.Is(err, domain.ErrRetrievalUnavailable) {
				return hits{}, backoff.Permanent(err)
			}
			return hits{}, err
		}
		return hits{scope: sc, raw: raw}, nil
	}

	attempts := s.retry.Attempts
	if attempts < 1 {
		attempts = 1
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.retry.Backoff

	h, err := backoff.Retry(ctx, op, backoff.WithBackOff(b), backoff.WithMaxTries(uint(attempts)))
	if err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			err = perm.Unwrap()
		}
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, domain.ErrRetrievalUnavailable) {
			err = fmt.Errorf("%w: %w: %v", domain.ErrRetrievalUnavailable, ctxErr, err)
		}
		return scope.Scope{}, nil, err
	}
	return h.scope, h.raw, nil
}
