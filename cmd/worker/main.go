package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.temporal.io/sdk/worker"

	"github.com/ghuser/volunteerhub/pkg/app"
	"github.com/ghuser/volunteerhub/pkg/cache"
	"github.com/ghuser/volunteerhub/pkg/config"
	"github.com/ghuser/volunteerhub/pkg/database"
	pkgevents "github.com/ghuser/volunteerhub/pkg/events"
	"github.com/ghuser/volunteerhub/pkg/logger"
	"github.com/ghuser/volunteerhub/pkg/telemetry"
	pkgworkflows "github.com/ghuser/volunteerhub/pkg/workflows"
	appsvcs "github.com/ghuser/volunteerhub/services/resource/application/services"
	"github.com/ghuser/volunteerhub/services/resource/application/workflows"
	"github.com/ghuser/volunteerhub/services/resource/domain/events"
	"github.com/ghuser/volunteerhub/services/resource/infrastructure/notify"
	"github.com/ghuser/volunteerhub/services/resource/infrastructure/persistence/sqlstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx := context.Background()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	db, err := database.Open(ctx, cfg, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer db.Close()
	log.Info("database connected", "driver", db.Dialect())

	a := &app.Application{Config: cfg, Db: db, Logger: log}

	if cfg.UsesEventBus() {
		eventBus, err := pkgevents.NewEventBus(db, cfg, log)
		if err != nil {
			log.Error("failed to setup event bus", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer eventBus.Close() //nolint:errcheck
		a.EventBus = eventBus
	}

	if cfg.RedisEnabled {
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer redisClient.Close() //nolint:errcheck
		log.Info("redis connected")
		a.Redis = redisClient
	}

	sink := deliverySink(cfg)

	if a.EventBus != nil {
		if err := registerSubscribers(ctx, a, sink); err != nil {
			log.Error("failed to register subscribers", "error", err)
			os.Exit(1) //nolint:gocritic
		}
	} else {
		log.Info("event bus disabled, no subscribers registered")
	}

	if cfg.TemporalEnabled {
		temporalClient, err := pkgworkflows.NewTemporalClient(ctx, cfg, log)
		if err != nil {
			log.Error("failed to initialize temporal client", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer temporalClient.Close()

		repos := sqlstore.New(db, nil).Repositories()
		w := temporalClient.NewWorker(func(r worker.Registry) {
			workflows.Register(r, &workflows.Activities{
				Assignments: repos.Assignments,
				Resources:   repos.Resources,
				Sink:        sink,
				Log:         log,
			})
		})
		if err := w.Start(); err != nil {
			log.Error("failed to start temporal worker", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer w.Stop()
		log.Info("temporal worker started", "task_queue", cfg.TemporalTaskQueue)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("shutting down worker...")
}

// deliverySink is the synchronous transport the worker delivers with, so
// failures reach the bus retry loop or the Temporal retry policy.
func deliverySink(cfg *config.Config) events.Sink {
	if cfg.NotifyMode == config.NotifyModeNone {
		return notify.NopSink{}
	}
	return notify.NewHTTPSink(cfg.NotifyURL, []byte(cfg.NotifySigningKey), cfg.NotifyTimeout)
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application, sink events.Sink) error {
	handlers := map[string]pkgevents.Handler{
		events.TopicResourceDistributed: handleNotification(a, sink),
		events.TopicReturnRequested:     handleNotification(a, sink),
		events.TopicReturnOverdue:       handleNotification(a, sink),
		events.TopicCustodyRecorded:     handleCustodyRecorded(a, appsvcs.NewResourceService(sqlstore.New(a.Db, nil), resourceCache(a), a.Logger)),
	}

	topics := make([]string, 0, len(handlers))
	for topic, h := range handlers {
		errCh, err := a.EventBus.Subscribe(ctx, topic, h)
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}

		// Drain subscriber errors in background so the channel never blocks.
		go func() {
			for err := range errCh {
				a.Logger.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
		}()
		topics = append(topics, topic)
	}

	a.Logger.Info("event subscribers registered", "topics", topics)
	return nil
}

func resourceCache(a *app.Application) appsvcs.ResourceCache {
	if a.Redis == nil {
		return nil
	}
	return cache.NewResourceCache(a.Redis)
}

// handleNotification pushes a realtime notification to the notification
// service. Undecodable payloads fail permanently and are nacked without retry;
// delivery errors are retried by the bus and receivers deduplicate on event id.
func handleNotification(a *app.Application, sink events.Sink) pkgevents.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		n, err := notify.Decode(msg)
		if err != nil {
			return err
		}
		if err := sink.Emit(ctx, n); err != nil {
			return fmt.Errorf("deliver %s notification: %w", n.Kind, err)
		}
		a.Logger.InfoContext(ctx, "notification delivered",
			"kind", n.Kind,
			"event_id", n.EventID,
			"assignment_id", n.AssignmentID,
		)
		return nil
	}
}

// handleCustodyRecorded refreshes the resource read model after every custody
// change, so the next GetByID is served from cache.
func handleCustodyRecorded(a *app.Application, resources *appsvcs.ResourceService) pkgevents.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		evt, err := pkgevents.Decode[events.CustodyRecordedEvent](msg)
		if err != nil {
			return err
		}

		if err := resources.Refresh(ctx, evt.ResourceID); err != nil {
			// Cache warming is best-effort; log but do not fail the handler.
			a.Logger.WarnContext(ctx, "cache refresh failed for custody_recorded",
				"resource_id", evt.ResourceID, "error", err)
			return nil
		}
		a.Logger.InfoContext(ctx, "custody recorded",
			"resource_id", evt.ResourceID,
			"sequence", evt.Sequence,
			"action", evt.Action,
		)
		return nil
	}
}
