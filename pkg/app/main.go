package app

import (
	"github.com/gorilla/sessions"

	"github.com/ghuser/volunteerhub/pkg/cache"
	"github.com/ghuser/volunteerhub/pkg/config"
	"github.com/ghuser/volunteerhub/pkg/database"
	"github.com/ghuser/volunteerhub/pkg/events"
	"github.com/ghuser/volunteerhub/pkg/logger"
	"github.com/ghuser/volunteerhub/pkg/workflows"
)

// Application holds shared infrastructure dependencies for all services.
// Pass it to every service's Routes call during server initialization.
//
// Optional dependencies are nil when disabled in config: EventBus (sqlite or
// EVENT_BUS_ENABLED=false), Redis, TemporalClient and SessionStore (worker
// and CLI processes).
//
// Logging: app.Logger is backed by a trace-aware handler. Use slog's context methods
// and trace_id, span_id, and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "resource distributed", "resource_id", id)
//	app.Logger.ErrorContext(ctx, "failed to append custody entry", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
type Application struct {
	Config         *config.Config
	Db             *database.Database
	Logger         logger.Logger
	EventBus       *events.EventBus
	Redis          *cache.RedisClient
	TemporalClient *workflows.TemporalClient
	SessionStore   sessions.Store
}
