package redis

import (
	"context"

	"github.com/kailas-cloud/netquery/internal/db"
)

// Server error fragments meaning "no such index" (Redis, Valkey).
var missingIndexErrors = []string{"unknown index name", "no such index", "not found"}

// IndexExists probes index existence via FT.INFO.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, missingIndexErrors...) {
			return false, nil
		}
		return false, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
	return true, nil
}
