// Package integration answers CRM-originated questions through the primary query.
package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/netquery/internal/domain"
	domaudit "github.com/kailas-cloud/netquery/internal/domain/audit"
	"github.com/kailas-cloud/netquery/internal/domain/connection"
	"github.com/kailas-cloud/netquery/internal/domain/recommendation"
	"github.com/kailas-cloud/netquery/internal/metrics"
)

// EndpointCRM labels metrics of the CRM path.
const EndpointCRM = "crm"

// Pipeline stages reported in domain.QueryError.
const (
	StageValidate = "validate"
	StageUpstream = "upstream"
	StageAssemble = "assemble"
)

// Policy grades top connections.
type Policy struct {
	TopConnections int
	HighIntro      float64
	MediumIntro    float64
}

// DefaultPolicy lists five connections: High above 0.7, Medium above 0.5.
func DefaultPolicy() Policy {
	return Policy{TopConnections: 5, HighIntro: 0.7, MediumIntro: 0.5}
}

// Service builds CRM envelopes.
type Service struct {
	upstream    Upstream
	recommender Recommender
	auditor     Auditor
	policy      Policy
	now         func() time.Time
}

// New creates the integration service. A nil auditor disables auditing.
func New(upstream Upstream, recommender Recommender, auditor Auditor, policy Policy) *Service {
	def := DefaultPolicy()
	if policy.TopConnections <= 0 {
		policy.TopConnections = def.TopConnections
	}
	if policy.HighIntro <= 0 && policy.MediumIntro <= 0 {
		policy.HighIntro, policy.MediumIntro = def.HighIntro, def.MediumIntro
	}
	return &Service{
		upstream:    upstream,
		recommender: recommender,
		auditor:     auditor,
		policy:      policy,
		now:         time.Now,
	}
}

// Handle runs req upstream and wraps the answer in an Envelope.
func (s *Service) Handle(ctx context.Context, req Request) (Envelope, error) {
	start := time.Now()
	env, err := s.handle(ctx, req)
	metrics.QueryDuration.WithLabelValues(EndpointCRM).Observe(time.Since(start).Seconds())

	outcome := "ok"
	if err != nil {
		outcome = string(domain.KindOf(err))
	}
	metrics.QueriesTotal.WithLabelValues(EndpointCRM, outcome).Inc()
	return env, err
}

func (s *Service) handle(ctx context.Context, req Request) (Envelope, error) {
	if err := validate(req); err != nil {
		return Envelope{}, domain.NewQueryError(StageValidate, err)
	}

	ans, err := s.upstream.Query(ctx, UpstreamRequest{
		Query:       req.Query,
		CompanyName: req.CompanyName,
		RequesterID: req.ExternalUserID,
	})
	if err != nil {
		var qe *domain.QueryError
		if errors.As(err, &qe) {
			return Envelope{}, err
		}
		return Envelope{}, domain.NewQueryError(StageUpstream, err)
	}

	env := Envelope{
		Query:            req.Query,
		Timestamp:        s.now().UTC().Format(time.RFC3339),
		ExternalUserID:   req.ExternalUserID,
		ExternalOrgID:    req.ExternalOrgID,
		ExternalRecordID: req.ExternalRecordID,
		NetworkInsights: NetworkInsights{
			TotalConnectionsFound: ans.TotalResults,
			TopConnections:        s.topConnections(ans.Connections),
			Summary:               ans.Summary,
			Recommendations:       recommendation.Views(s.recommender.Recommend(ans.Connections)),
		},
	}

	if s.auditor != nil {
		body, err := json.Marshal(env)
		if err != nil {
			return Envelope{}, domain.NewQueryError(StageAssemble, fmt.Errorf("encode envelope: %w", err))
		}
		s.auditor.Dispatch(ctx, domaudit.NewEvent(ans.CompanyID, req.Query, string(body), req.ExternalUserID))
	}
	return env, nil
}

func (s *Service) topConnections(ranked []connection.Connection) []TopConnection {
	n := min(len(ranked), s.policy.TopConnections)
	out := make([]TopConnection, 0, n)
	for _, c := range ranked[:n] {
		out = append(out, TopConnection{
			Name:            c.Name,
			Company:         c.Company,
			Position:        c.Position,
			Email:           c.Email,
			LinkedInProfile: c.LinkedInURL,
			RelevanceScore:  c.RelevanceScore,
			PotentialIntro:  connection.Tier(c.RelevanceScore, s.policy.HighIntro, s.policy.MediumIntro),
		})
	}
	return out
}

func validate(req Request) error {
	var missing []string
	if strings.TrimSpace(req.Query) == "" {
		missing = append(missing, "query")
	}
	if strings.TrimSpace(req.CompanyName) == "" {
		missing = append(missing, "companyName")
	}
	if strings.TrimSpace(req.ExternalUserID) == "" {
		missing = append(missing, "externalUserId")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}
