package scope

import (
	"context"
	"testing"
	"time"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	indexExistsFn func(ctx context.Context, name string) (bool, error)
	hGetAllFn     func(ctx context.Context, key string) (map[string]string, error)
	probes        int
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	m.probes++
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return true, nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hGetAllFn != nil {
		return m.hGetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func newTestRepo(t *testing.T, ttl time.Duration) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, ttl, nil), ms
}
