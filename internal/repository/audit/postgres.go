// Package audit persists query audit events.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // postgres driver

	domaudit "github.com/kailas-cloud/netquery/internal/domain/audit"
)

const insertEvent = `INSERT INTO query_audit_log
	(id, company_id, query_text, response_text, requester_id, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

// PostgresConfig holds pool settings for the audit database.
type PostgresConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// PostgresSink writes events into the query_audit_log table.
type PostgresSink struct {
	db *sql.DB
}

// OpenPostgres opens a pooled connection. The pool is lazy; use Ping to verify.
func OpenPostgres(cfg PostgresConfig) (*PostgresSink, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	lifetime := cfg.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = 5 * time.Minute
	}
	db.SetConnMaxLifetime(lifetime)
	db.SetConnMaxIdleTime(lifetime)

	return &PostgresSink{db: db}, nil
}

// NewPostgresSink wraps an existing handle, typically sqlmock in tests.
func NewPostgresSink(db *sql.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

// Record inserts one event.
func (s *PostgresSink) Record(ctx context.Context, e domaudit.Event) error {
	_, err := s.db.ExecContext(ctx, insertEvent,
		e.ID, e.CompanyID, e.QueryText, e.ResponseText, nullable(e.RequesterID), e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit event %s: %w", e.ID, err)
	}
	return nil
}

// Ping checks the connection.
func (s *PostgresSink) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the pool.
func (s *PostgresSink) Close() error {
	return s.db.Close()
}

func nullable(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
