package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

// --- Mocks ---

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockEmbeddingChecker struct {
	err error
}

func (m *mockEmbeddingChecker) HealthCheck(_ context.Context) error { return m.err }

type slowPinger struct{}

func (slowPinger) Ping(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

// --- Tests ---

func TestCheck(t *testing.T) {
	down := errors.New("down")
	tests := []struct {
		name      string
		db        error
		embedding error
		audit     error
		status    Status
		failing   []string
	}{
		{name: "all healthy", status: Healthy},
		{name: "db error", db: down, status: Degraded, failing: []string{CheckDatabase}},
		{name: "embedding error", embedding: down, status: Degraded, failing: []string{CheckEmbedding}},
		{name: "audit error", audit: down, status: Degraded, failing: []string{CheckAudit}},
		{
			name: "all fail", db: down, embedding: down, audit: down, status: Degraded,
			failing: []string{CheckDatabase, CheckEmbedding, CheckAudit},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := New(&mockPinger{err: tc.db}, &mockEmbeddingChecker{err: tc.embedding}, &mockPinger{err: tc.audit})
			r := svc.Check(context.Background())

			if r.Status != tc.status {
				t.Errorf("expected %q, got %q", tc.status, r.Status)
			}
			if len(r.Checks) != 3 {
				t.Fatalf("expected 3 checks, got %v", r.Checks)
			}
			failing := map[string]bool{}
			for _, f := range tc.failing {
				failing[f] = true
			}
			for name, res := range r.Checks {
				want := CheckOK
				if failing[name] {
					want = CheckError
				}
				if res != want {
					t.Errorf("%s: expected %q, got %q", name, want, res)
				}
			}
		})
	}
}

func TestCheck_OptionalComponents(t *testing.T) {
	svc := New(&mockPinger{}, nil, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks[CheckEmbedding]; ok {
		t.Error("embedding check should be absent when embedding is nil")
	}
	if _, ok := r.Checks[CheckAudit]; ok {
		t.Error("audit check should be absent when audit is nil")
	}
}

func TestCheck_Timeout(t *testing.T) {
	svc := New(slowPinger{}, nil, nil).WithTimeout(20 * time.Millisecond)

	start := time.Now()
	r := svc.Check(context.Background())
	if time.Since(start) > time.Second {
		t.Fatal("check did not honour its timeout")
	}
	if r.Checks[CheckDatabase] != CheckError {
		t.Errorf("expected timed-out check to fail, got %q", r.Checks[CheckDatabase])
	}
}
