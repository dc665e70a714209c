package services

import (
	"github.com/ghuser/volunteerhub/pkg/app"
	"github.com/ghuser/volunteerhub/pkg/cache"
	"github.com/ghuser/volunteerhub/pkg/config"
	"github.com/ghuser/volunteerhub/services/resource/application/workflows"
	"github.com/ghuser/volunteerhub/services/resource/domain/events"
	"github.com/ghuser/volunteerhub/services/resource/infrastructure/notify"
	"github.com/ghuser/volunteerhub/services/resource/infrastructure/persistence/sqlstore"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Allocation *AllocationService
	Resource   *ResourceService
}

// New wires the resource application services with infrastructure from the
// Application container. Disabled infrastructure is simply left out.
func New(a *app.Application) *Services {
	var outbox sqlstore.Outbox
	if a.EventBus != nil {
		outbox = a.EventBus
	}
	store := sqlstore.New(a.Db, outbox)

	var rc ResourceCache
	if a.Redis != nil {
		rc = cache.NewResourceCache(a.Redis)
	}

	opts := []AllocationOption{WithSink(NewSink(a)), WithCache(rc)}
	if a.TemporalClient != nil {
		opts = append(opts, WithScheduler(workflows.NewScheduler(a.TemporalClient.Client, a.TemporalClient.TaskQueue)))
	}

	return &Services{
		Allocation: NewAllocationService(store, a.Logger, opts...),
		Resource:   NewResourceService(store, rc, a.Logger),
	}
}

// NewSink picks the notification transport configured by NOTIFY_MODE. Bus
// mode falls back to direct HTTP when the event bus is unavailable.
func NewSink(a *app.Application) events.Sink {
	cfg := a.Config
	if cfg == nil || cfg.NotifyMode == config.NotifyModeNone {
		return notify.NopSink{}
	}
	if cfg.NotifyMode == config.NotifyModeBus && a.EventBus != nil {
		return notify.NewAsyncSink(notify.NewBusSink(a.EventBus), cfg.NotifyTimeout, a.Logger)
	}
	return notify.NewAsyncSink(notify.NewHTTPSink(cfg.NotifyURL, []byte(cfg.NotifySigningKey), cfg.NotifyTimeout), cfg.NotifyTimeout, a.Logger)
}
