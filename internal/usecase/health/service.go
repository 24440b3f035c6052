// Package health aggregates dependency checks for GET /health.
package health

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Check names.
const (
	CheckDatabase  = "database"
	CheckEmbedding = "embedding"
	CheckAudit     = "audit"
)

const defaultCheckTimeout = 3 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

type probe struct {
	name string
	fn   func(ctx context.Context) error
}

// Service coordinates health checks. Checks run concurrently, each with its own timeout.
type Service struct {
	probes  []probe
	timeout time.Duration
}

// New creates a Service. embedding and audit can be nil.
func New(db DBPinger, embedding EmbeddingChecker, audit AuditPinger) *Service {
	s := &Service{timeout: defaultCheckTimeout}
	s.probes = append(s.probes, probe{CheckDatabase, db.Ping})
	if embedding != nil {
		s.probes = append(s.probes, probe{CheckEmbedding, embedding.HealthCheck})
	}
	if audit != nil {
		s.probes = append(s.probes, probe{CheckAudit, audit.Ping})
	}
	return s
}

// WithTimeout overrides the per-check timeout.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	var mu sync.Mutex
	checks := make(map[string]CheckResult, len(s.probes))

	var g errgroup.Group
	for _, p := range s.probes {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			result := CheckOK
			if err := p.fn(pctx); err != nil {
				result = CheckError
			}
			mu.Lock()
			checks[p.name] = result
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	return Report{Status: status, Checks: checks}
}
