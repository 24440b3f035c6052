package redis

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/netquery/internal/db"
)

// SearchKNN runs a KNN vector similarity search via FT.SEARCH.
// Every entry must carry a parsable __vector_score, otherwise the reply is malformed.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("vector is required")
	}
	if q.K <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	args := []string{q.IndexName, fmt.Sprintf("*=>[KNN %d @vector $BLOB]", q.K)}

	if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}

	args = append(args,
		"LIMIT", "0", strconv.Itoa(q.K),
		"PARAMS", "2", "BLOB", vectorToBytes(q.Vector),
		"DIALECT", "2",
	)

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseKNNResult(raw)
}

// parseKNNResult reads the RESP2 2-stride reply: [total, key1, fields1, key2, fields2, ...].
func parseKNNResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("%w: parse total: %w", db.ErrMalformedReply, err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}
	if (len(raw)-1)%2 != 0 {
		return nil, fmt.Errorf("%w: odd number of entry elements (%d)", db.ErrMalformedReply, len(raw)-1)
	}

	entries := make([]db.SearchEntry, 0, (len(raw)-1)/2)
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d key: %w", db.ErrMalformedReply, i/2, err)
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			return nil, fmt.Errorf("%w: entry %s fields: %w", db.ErrMalformedReply, key, err)
		}

		m := parseFieldPairs(fields)
		scoreStr, ok := m[db.ScoreField]
		if !ok {
			return nil, fmt.Errorf("%w: entry %s has no %s", db.ErrMalformedReply, key, db.ScoreField)
		}
		distance, err := strconv.ParseFloat(scoreStr, 64)
		if err != nil || math.IsNaN(distance) || distance < 0 {
			return nil, fmt.Errorf("%w: entry %s distance %q", db.ErrMalformedReply, key, scoreStr)
		}
		delete(m, db.ScoreField)

		entries = append(entries, db.SearchEntry{Key: key, Distance: distance, Fields: m})
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
