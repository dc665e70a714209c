package notify

import (
	"context"
	"sync"
	"time"

	"github.com/ghuser/volunteerhub/pkg/logger"
	"github.com/ghuser/volunteerhub/services/resource/domain/events"
)

// AsyncSink emits on a background goroutine so slow receivers never hold up
// the request that committed the custody change. Failures are logged.
type AsyncSink struct {
	next    events.Sink
	timeout time.Duration
	log     logger.Logger
	wg      sync.WaitGroup
}

// NewAsyncSink wraps next. Each emit gets its own timeout.
func NewAsyncSink(next events.Sink, timeout time.Duration, log logger.Logger) *AsyncSink {
	return &AsyncSink{next: next, timeout: timeout, log: log}
}

// Emit schedules delivery and returns immediately.
func (s *AsyncSink) Emit(ctx context.Context, n events.Notification) error {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		emitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		if err := s.next.Emit(emitCtx, n); err != nil {
			s.log.WarnContext(emitCtx, "notify: delivery failed",
				"kind", n.Kind,
				"event_id", n.EventID,
				"resource_id", n.ResourceID,
				"error", err,
			)
		}
	}()
	return nil
}

// Wait blocks until in-flight deliveries finish.
func (s *AsyncSink) Wait() {
	s.wg.Wait()
}

// NopSink discards notifications.
type NopSink struct{}

// Emit does nothing.
func (NopSink) Emit(context.Context, events.Notification) error { return nil }
