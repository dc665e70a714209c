package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ghuser/volunteerhub/pkg/logger"
)

// RetryPolicy bounds how often a failing handler is re-run before its message
// is nacked. Delays double from BaseDelay.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
}

// DefaultRetryPolicy is used by every bus: 1s, 2s between three attempts.
var DefaultRetryPolicy = RetryPolicy{Attempts: 3, BaseDelay: time.Second}

// Run calls fn until it succeeds, returns a permanent error, or the attempts
// run out. Cancelling ctx stops the wait between attempts.
func (p RetryPolicy) Run(ctx context.Context, log logger.Logger, fn func(context.Context) error) error {
	attempts := max(p.Attempts, 1)
	delay := p.BaseDelay

	var err error
	for attempt := 1; ; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrPermanent) {
			return err
		}
		if attempt == attempts {
			return fmt.Errorf("gave up after %d attempts: %w", attempts, err)
		}
		log.WarnContext(ctx, "events: handler failed, retrying",
			"attempt", attempt,
			"next_delay", delay,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}
}
