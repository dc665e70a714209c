// Package events is the Watermill event bus shared by cmd/api and cmd/worker.
//
// Messages live in the application's postgres database (watermill-sql), so a
// repository can publish inside its own transaction through NewTxPublisher and
// the message becomes visible only if that transaction commits. With the
// forwarder enabled, transactional publishes land in an outbox topic and a
// background daemon moves them to their real topic.
//
// Subscribers share one consumer group per service name: each message is
// handled by a single worker instance. Handlers must be idempotent.
package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/ghuser/volunteerhub/pkg/config"
	"github.com/ghuser/volunteerhub/pkg/database"
	"github.com/ghuser/volunteerhub/pkg/logger"
)

const (
	outboxTopic     = "_custody_outbox"
	drainTimeout    = 30 * time.Second
	errChanCapacity = 100
)

// Handler processes one message. A nil return acks it.
type Handler func(ctx context.Context, msg *message.Message) error

// EventBus publishes and consumes messages stored in the application database.
type EventBus struct {
	db         *database.Database
	log        logger.Logger
	wlog       *watermillLogger
	group      string
	retry      RetryPolicy
	publisher  message.Publisher
	subscriber *watermillsql.Subscriber
	withOutbox bool
	fwd        *forwarder.Forwarder
	handlersWG sync.WaitGroup
}

// NewEventBus returns a bus publishing straight to target topics. Used by
// cmd/worker, which only consumes.
func NewEventBus(db *database.Database, cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return newEventBus(db, cfg, log, false)
}

// NewEventBusWithForwarder returns a bus whose publishes go through the
// outbox topic. Call StartForwarder before serving requests.
func NewEventBusWithForwarder(db *database.Database, cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return newEventBus(db, cfg, log, true)
}

func newEventBus(db *database.Database, cfg *config.Config, log logger.Logger, withOutbox bool) (*EventBus, error) {
	if db.Dialect() != database.DialectPostgres {
		return nil, fmt.Errorf("events: sql transport needs postgres, got %s", db.Dialect())
	}

	b := &EventBus{
		db:         db,
		log:        log,
		wlog:       &watermillLogger{log: log},
		group:      cfg.ServiceName + "-consumer",
		retry:      DefaultRetryPolicy,
		withOutbox: withOutbox,
	}

	pub, err := b.sqlPublisher(db.DB(), true)
	if err != nil {
		return nil, err
	}
	b.publisher = b.wrapOutbox(pub)

	sub, err := b.sqlSubscriber(b.group)
	if err != nil {
		_ = pub.Close()
		return nil, err
	}
	b.subscriber = sub
	return b, nil
}

func (b *EventBus) sqlPublisher(conn watermillsql.ContextExecutor, initSchema bool) (*watermillsql.Publisher, error) {
	pub, err := watermillsql.NewPublisher(conn, watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: initSchema,
	}, b.wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}
	return pub, nil
}

func (b *EventBus) sqlSubscriber(group string) (*watermillsql.Subscriber, error) {
	sub, err := watermillsql.NewSubscriber(b.db.DB(), watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    group,
	}, b.wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new subscriber (%s): %w", group, err)
	}
	return sub, nil
}

func (b *EventBus) wrapOutbox(pub message.Publisher) message.Publisher {
	if !b.withOutbox {
		return pub
	}
	return forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: outboxTopic})
}

// StartForwarder runs the daemon that drains the outbox topic. It returns once
// the daemon is running. The daemon stops when ctx is cancelled or on Close.
func (b *EventBus) StartForwarder(ctx context.Context) error {
	switch {
	case !b.withOutbox:
		return errors.New("events: bus was built without an outbox")
	case b.fwd != nil:
		return errors.New("events: forwarder already started")
	}

	outboxSub, err := b.sqlSubscriber("outbox-forwarder")
	if err != nil {
		return err
	}
	target, err := b.sqlPublisher(b.db.DB(), true)
	if err != nil {
		_ = outboxSub.Close()
		return err
	}
	fwd, err := forwarder.NewForwarder(outboxSub, target, b.wlog, forwarder.Config{ForwarderTopic: outboxTopic})
	if err != nil {
		_ = target.Close()
		_ = outboxSub.Close()
		return fmt.Errorf("events: new forwarder: %w", err)
	}
	b.fwd = fwd

	b.handlersWG.Add(1)
	go func() {
		defer b.handlersWG.Done()
		if err := fwd.Run(ctx); err != nil {
			b.log.ErrorContext(ctx, "events: forwarder exited", "error", err)
			return
		}
		b.log.InfoContext(ctx, "events: forwarder exited")
	}()

	select {
	case <-fwd.Running():
		b.log.InfoContext(ctx, "events: forwarder running", "outbox_topic", outboxTopic)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: waiting for forwarder: %w", ctx.Err())
	}
}

// NewTxPublisher returns a publisher writing through tx. Messages published on
// it commit or roll back with tx.
func (b *EventBus) NewTxPublisher(tx *sql.Tx) (message.Publisher, error) {
	pub, err := b.sqlPublisher(tx, false)
	if err != nil {
		return nil, err
	}
	return b.wrapOutbox(pub), nil
}

// Publish sends msgs to topic, carrying the trace of ctx in message metadata.
func (b *EventBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for _, msg := range msgs {
		for k, v := range carrier {
			msg.Metadata.Set(k, v)
		}
	}
	if err := b.publisher.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe consumes topic in the background. Failed messages are retried per
// the bus RetryPolicy and then nacked for redelivery, except ErrPermanent
// failures, which are dropped. The final error of every failed message is sent
// on the returned channel, which callers must drain.
func (b *EventBus) Subscribe(ctx context.Context, topic string, h Handler) (<-chan error, error) {
	msgs, err := b.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe %s: %w", topic, err)
	}

	errCh := make(chan error, errChanCapacity)
	b.handlersWG.Add(1)
	go func() {
		defer b.handlersWG.Done()
		defer close(errCh)
		for msg := range msgs {
			msgCtx := otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(msg.Metadata))
			err := b.retry.Run(msgCtx, b.log, func(ctx context.Context) error { return h(ctx, msg) })
			if err == nil {
				msg.Ack()
				continue
			}
			if errors.Is(err, ErrPermanent) {
				// Redelivery cannot help; drop the message after reporting it.
				msg.Ack()
			} else {
				msg.Nack()
			}
			select {
			case errCh <- fmt.Errorf("%s %s: %w", topic, msg.UUID, err):
			default:
				b.log.ErrorContext(msgCtx, "events: error channel full", "topic", topic, "error", err)
			}
		}
	}()
	return errCh, nil
}

// Ping reports whether the bus database is reachable.
func (b *EventBus) Ping(ctx context.Context) error {
	return b.db.Ping(ctx)
}

// Close stops consuming, waits for in-flight handlers and closes the
// publisher. The database handle belongs to the caller and stays open.
func (b *EventBus) Close() error {
	var errs []error
	if err := b.subscriber.Close(); err != nil {
		errs = append(errs, fmt.Errorf("events: close subscriber: %w", err))
	}
	if b.fwd != nil {
		if err := b.fwd.Close(); err != nil {
			errs = append(errs, fmt.Errorf("events: close forwarder: %w", err))
		}
	}

	done := make(chan struct{})
	go func() {
		b.handlersWG.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(drainTimeout):
		b.log.Error("events: in-flight handlers still running after drain timeout", "timeout", drainTimeout)
	}

	if err := b.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("events: close publisher: %w", err))
	}
	return errors.Join(errs...)
}
