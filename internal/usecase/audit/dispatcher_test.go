package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	domaudit "github.com/kailas-cloud/netquery/internal/domain/audit"
)

type mockSink struct {
	mu       sync.Mutex
	recordFn func(ctx context.Context, e domaudit.Event) error
	events   []domaudit.Event
}

func (m *mockSink) Record(ctx context.Context, e domaudit.Event) error {
	m.mu.Lock()
	m.events = append(m.events, e)
	m.mu.Unlock()
	if m.recordFn != nil {
		return m.recordFn(ctx, e)
	}
	return nil
}

func newCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_audit_events_total"}, []string{"result"})
}

func TestDispatch_Records(t *testing.T) {
	sink := &mockSink{}
	counter := newCounter()
	d := NewDispatcher(sink, time.Second, counter, zap.NewNop())

	d.Dispatch(context.Background(), domaudit.NewEvent("c-1", "q", "r", ""))
	if err := d.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}

	if len(sink.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(sink.events))
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("ok")); got != 1 {
		t.Errorf("expected ok=1, got %v", got)
	}
}

func TestDispatch_FailureIsSwallowed(t *testing.T) {
	sink := &mockSink{recordFn: func(context.Context, domaudit.Event) error {
		return errors.New("db down")
	}}
	counter := newCounter()
	d := NewDispatcher(sink, time.Second, counter, zap.NewNop())

	d.Dispatch(context.Background(), domaudit.NewEvent("c-1", "q", "r", ""))
	if err := d.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("failed")); got != 1 {
		t.Errorf("expected failed=1, got %v", got)
	}
}

func TestDispatch_DetachedFromCallerCancel(t *testing.T) {
	var sawErr error
	sink := &mockSink{recordFn: func(ctx context.Context, _ domaudit.Event) error {
		sawErr = ctx.Err()
		return nil
	}}
	d := NewDispatcher(sink, time.Second, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Dispatch(ctx, domaudit.NewEvent("c-1", "q", "r", ""))
	if err := d.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if sawErr != nil {
		t.Fatalf("sink context must not inherit cancellation, got %v", sawErr)
	}
}

func TestDispatch_DoesNotBlockCaller(t *testing.T) {
	release := make(chan struct{})
	sink := &mockSink{recordFn: func(context.Context, domaudit.Event) error {
		<-release
		return nil
	}}
	d := NewDispatcher(sink, time.Second, nil, nil)

	start := time.Now()
	d.Dispatch(context.Background(), domaudit.NewEvent("c-1", "q", "r", ""))
	if time.Since(start) > 100*time.Millisecond {
		t.Fatal("Dispatch blocked on the sink")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := d.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected Wait to time out while sink is blocked, got %v", err)
	}

	close(release)
	if err := d.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
}

func TestDispatch_NilDispatcher(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(context.Background(), domaudit.Event{})
}
