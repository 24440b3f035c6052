package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/netquery/internal/domain"
	"github.com/kailas-cloud/netquery/internal/domain/match"
	"github.com/kailas-cloud/netquery/internal/domain/scope"
)

// --- Mocks ---

type mockResolver struct {
	scope scope.Scope
	err   error
}

func (m *mockResolver) Resolve(_ context.Context, _ string) (scope.Scope, error) {
	return m.scope, m.err
}

type mockEmbedder struct {
	vec      []float32
	err      error
	called   bool
	lastText string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.called = true
	m.lastText = text
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

type mockRepo struct {
	raw            []match.RawMatch
	err            error
	called         bool
	lastCollection string
	lastK          int
}

func (m *mockRepo) SearchKNN(_ context.Context, collection string, _ []float32, topK int) ([]match.RawMatch, error) {
	m.called = true
	m.lastCollection = collection
	m.lastK = topK
	return m.raw, m.err
}

func acmeScope() scope.Scope {
	return scope.New("c-1", "Acme", "acme_linkedin_connections")
}

func newTestService() (*Service, *mockResolver, *mockEmbedder, *mockRepo) {
	res := &mockResolver{scope: acmeScope()}
	emb := &mockEmbedder{vec: []float32{0.1, 0.2}}
	repo := &mockRepo{raw: []match.RawMatch{match.New("1", "doc", nil, 0.1)}}
	return New(res, emb, repo, 0), res, emb, repo
}

// --- Tests ---

func TestRetrieve_Success(t *testing.T) {
	svc, _, emb, repo := newTestService()

	sc, raw, err := svc.Retrieve(context.Background(), "engineers", "Acme", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sc.Collection() != "acme_linkedin_connections" {
		t.Errorf("unexpected scope %v", sc)
	}
	if len(raw) != 1 {
		t.Fatalf("expected 1 match, got %d", len(raw))
	}
	if emb.lastText != "engineers" {
		t.Errorf("unexpected embed text %q", emb.lastText)
	}
	if repo.lastCollection != "acme_linkedin_connections" || repo.lastK != 5 {
		t.Errorf("unexpected search args: %s k=%d", repo.lastCollection, repo.lastK)
	}
}

func TestRetrieve_DefaultTopK(t *testing.T) {
	svc, _, _, repo := newTestService()

	if svc.TopK() != DefaultTopK {
		t.Fatalf("expected default top k %d, got %d", DefaultTopK, svc.TopK())
	}
	if _, _, err := svc.Retrieve(context.Background(), "q", "Acme", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastK != DefaultTopK {
		t.Errorf("expected k=%d, got %d", DefaultTopK, repo.lastK)
	}
}

func TestRetrieve_ScopeNotFound(t *testing.T) {
	svc, res, emb, _ := newTestService()
	res.err = domain.ErrScopeNotFound

	_, _, err := svc.Retrieve(context.Background(), "q", "Nobody", 5)
	if !errors.Is(err, domain.ErrScopeNotFound) {
		t.Fatalf("expected ErrScopeNotFound, got %v", err)
	}
	if emb.called {
		t.Error("embedder should not be called for unknown scope")
	}
}

func TestRetrieve_EmbeddingFailureIsUnavailable(t *testing.T) {
	svc, _, emb, repo := newTestService()
	emb.err = domain.ErrEmbeddingProviderError

	_, _, err := svc.Retrieve(context.Background(), "q", "Acme", 5)
	if !errors.Is(err, domain.ErrRetrievalUnavailable) {
		t.Fatalf("expected ErrRetrievalUnavailable, got %v", err)
	}
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected provider cause kept, got %v", err)
	}
	if repo.called {
		t.Error("search should not run without a query vector")
	}
}

func TestRetrieve_StoreFailure(t *testing.T) {
	svc, _, _, repo := newTestService()
	repo.err = domain.ErrRetrievalUnavailable

	_, _, err := svc.Retrieve(context.Background(), "q", "Acme", 5)
	if domain.KindOf(err) != domain.KindRetrievalUnavailable {
		t.Fatalf("expected retrieval_unavailable, got %v", err)
	}
}

func TestRetrieve_ZeroHits(t *testing.T) {
	svc, _, _, repo := newTestService()
	repo.raw = []match.RawMatch{}

	_, raw, err := svc.Retrieve(context.Background(), "q", "Acme", 5)
	if err != nil {
		t.Fatalf("zero hits must not fail: %v", err)
	}
	if len(raw) != 0 {
		t.Errorf("expected no matches, got %d", len(raw))
	}
}

func TestRetrieve_CancelledContext(t *testing.T) {
	svc, res, _, _ := newTestService()
	res.err = domain.ErrScopeNotFound

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := svc.Retrieve(ctx, "q", "Acme", 5)
	if domain.KindOf(err) != domain.KindRetrievalUnavailable {
		t.Fatalf("cancelled queries must be unavailable, got kind %s (%v)", domain.KindOf(err), err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}
}
