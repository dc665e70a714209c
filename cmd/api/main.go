package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/ghuser/volunteerhub/docs/swagger"
	"github.com/ghuser/volunteerhub/pkg/app"
	"github.com/ghuser/volunteerhub/pkg/auth"
	"github.com/ghuser/volunteerhub/pkg/cache"
	"github.com/ghuser/volunteerhub/pkg/config"
	"github.com/ghuser/volunteerhub/pkg/database"
	"github.com/ghuser/volunteerhub/pkg/events"
	"github.com/ghuser/volunteerhub/pkg/httpx"
	"github.com/ghuser/volunteerhub/pkg/logger"
	"github.com/ghuser/volunteerhub/pkg/migrator"
	"github.com/ghuser/volunteerhub/pkg/telemetry"
	"github.com/ghuser/volunteerhub/pkg/workflows"
	resourceApi "github.com/ghuser/volunteerhub/services/resource/application/api"
)

// @title					VolunteerHub Resource API
// @version				1.0
// @description			Resource allocation and chain-of-custody engine of the volunteer platform.
// @contact.name			API Support
// @license.name			MIT
// @license.url			https://opensource.org/licenses/MIT
// @host					localhost:8080
// @BasePath				/api
// @schemes				http https
// @securityDefinitions.apikey	SessionCookie
// @in							cookie
// @name						volunteerhub_session
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

	// Telemetry: OTel tracing + metrics
	ctx := context.Background()
	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	// Crash reporting: Sentry (optional, log and continue on failure)
	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	db, err := database.Open(ctx, cfg, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic // intentional: startup failure, deferred flushes are best-effort
	}
	defer db.Close()
	log.Info("database connected", "driver", db.Dialect())

	if cfg.AutoMigrate {
		applied, err := migrator.RunMigrations(ctx, db)
		if err != nil {
			log.Error("failed to run migrations", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		log.Info("migrations applied", "versions", applied)
	}

	checks := httpx.HealthChecks{Database: db}
	a := &app.Application{Config: cfg, Db: db, Logger: log}

	if cfg.UsesEventBus() {
		eventBus, err := events.NewEventBusWithForwarder(db, cfg, log)
		if err != nil {
			log.Error("failed to setup event bus", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer eventBus.Close() //nolint:errcheck

		if err := eventBus.StartForwarder(ctx); err != nil {
			log.Error("failed to start event forwarder", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		a.EventBus = eventBus
		checks.EventBus = eventBus
	} else {
		log.Info("event bus disabled", "driver", cfg.DatabaseDriver)
	}

	if cfg.RedisEnabled {
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			os.Exit(1) //nolint:gocritic // intentional: startup failure
		}
		defer redisClient.Close() //nolint:errcheck
		log.Info("redis connected")
		a.Redis = redisClient
		checks.Redis = redisClient
	}

	if cfg.TemporalEnabled {
		temporalClient, err := workflows.NewTemporalClient(ctx, cfg, log)
		if err != nil {
			log.Error("failed to initialize temporal client", "error", err)
			os.Exit(1) //nolint:gocritic // intentional: startup failure
		}
		defer temporalClient.Close()
		a.TemporalClient = temporalClient
		checks.Temporal = temporalClient
	}

	a.SessionStore = newSessionStore(cfg, a.Redis)
	log.Info("session store initialized", "backend", sessionBackend(a.Redis))

	r := httpx.NewRouter(
		httpx.ServerConfig{
			ServiceName:        cfg.ServiceName,
			IsDevelopment:      cfg.Environment == config.EnvDevelopment,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		},
		httpx.Observability{
			Recovery: logger.Recovery(log),
			Sentry:   telemetry.SentryMiddleware(),
			Tracing:  otelhttp.NewMiddleware(cfg.ServiceName),
			Logging:  logger.Middleware(log),
		},
	)

	r.Get("/health", httpx.HealthHandler(checks))
	r.Get("/metrics", metricsHandler.ServeHTTP)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	r.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAuth(a.SessionStore, log))
		registerRoutes(r, a)
	})

	srv := httpx.NewServer(cfg.HTTPAddr, r)

	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// newSessionStore keeps sessions in Redis when it is available, and in
// encrypted cookies on single-node deployments.
func newSessionStore(cfg *config.Config, rc *cache.RedisClient) sessions.Store {
	secure := cfg.Environment == config.EnvProduction
	if rc != nil {
		return auth.NewSessionStore(rc.Client(), []byte(cfg.SessionAuthKey), []byte(cfg.SessionEncryptionKey), secure)
	}
	return auth.NewCookieStore([]byte(cfg.SessionAuthKey), []byte(cfg.SessionEncryptionKey), secure)
}

func sessionBackend(rc *cache.RedisClient) string {
	if rc != nil {
		return "redis"
	}
	return "cookie"
}

// registerRoutes mounts all service routes under /api.
// Add each new service's route function here.
func registerRoutes(r chi.Router, a *app.Application) {
	resourceApi.ResourceRoutes(r, a)
}
