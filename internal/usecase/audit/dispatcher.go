// Package audit dispatches audit events to a sink without blocking the caller.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	domaudit "github.com/kailas-cloud/netquery/internal/domain/audit"
)

const defaultTimeout = 5 * time.Second

// Sink persists audit events.
type Sink interface {
	Record(ctx context.Context, e domaudit.Event) error
}

// Dispatcher runs each Record in its own goroutine, detached from the request context.
// Failures are logged and counted, never returned.
type Dispatcher struct {
	sink    Sink
	timeout time.Duration
	events  *prometheus.CounterVec
	logger  *zap.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a dispatcher. events is a counter vec with label "result"
// ("ok"/"failed"); nil disables counting.
func NewDispatcher(sink Sink, timeout time.Duration, events *prometheus.CounterVec, logger *zap.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{sink: sink, timeout: timeout, events: events, logger: logger}
}

// Dispatch schedules e for recording and returns immediately.
func (d *Dispatcher) Dispatch(ctx context.Context, e domaudit.Event) {
	if d == nil || d.sink == nil {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		if err := d.sink.Record(rctx, e); err != nil {
			d.inc("failed")
			d.logger.Warn("Audit event not recorded",
				zap.String("audit_id", e.ID),
				zap.String("company_id", e.CompanyID),
				zap.Error(err),
			)
			return
		}
		d.inc("ok")
	}()
}

// Wait blocks until in-flight events finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) inc(result string) {
	if d.events != nil {
		d.events.WithLabelValues(result).Inc()
	}
}
