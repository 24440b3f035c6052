package audit

import (
	"context"

	"go.uber.org/zap"

	domaudit "github.com/kailas-cloud/netquery/internal/domain/audit"
)

// LogSink writes events to the structured log. Used when no database is configured.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a log-backed sink.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger.Named("audit")}
}

// Record logs the event; response text is summarized by length.
func (s *LogSink) Record(_ context.Context, e domaudit.Event) error {
	s.logger.Info("query_audit",
		zap.String("id", e.ID),
		zap.String("company_id", e.CompanyID),
		zap.String("query", e.QueryText),
		zap.Int("response_len", len(e.ResponseText)),
		zap.String("requester_id", e.RequesterID),
		zap.Time("created_at", e.CreatedAt),
	)
	return nil
}

// Ping always succeeds.
func (s *LogSink) Ping(context.Context) error { return nil }
