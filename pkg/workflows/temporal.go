// Package workflows connects processes to Temporal. The resource service's
// workflow definitions live in services/resource/application/workflows.
package workflows

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	"go.temporal.io/sdk/interceptor"
	temporallog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	"github.com/ghuser/volunteerhub/pkg/config"
	"github.com/ghuser/volunteerhub/pkg/logger"
)

// TemporalClient is the process's Temporal connection plus the task queue its
// workflows run on.
type TemporalClient struct {
	Client    client.Client
	TaskQueue string
	log       logger.Logger
}

// NewTemporalClient dials cfg.TemporalHostPort. Workflow starts, workflows and
// activities are traced through the global OTel tracer provider.
func NewTemporalClient(ctx context.Context, cfg *config.Config, log logger.Logger) (*TemporalClient, error) {
	tracing, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: otel.Tracer("temporal"),
	})
	if err != nil {
		return nil, fmt.Errorf("temporal tracing interceptor: %w", err)
	}

	c, err := client.DialContext(ctx, client.Options{
		HostPort:     cfg.TemporalHostPort,
		Namespace:    cfg.TemporalNamespace,
		Logger:       temporallog.NewStructuredLogger(log.ToSlog().With("component", "temporal")),
		Interceptors: []interceptor.ClientInterceptor{tracing},
	})
	if err != nil {
		return nil, fmt.Errorf("dial temporal at %s: %w", cfg.TemporalHostPort, err)
	}

	log.Info("temporal client connected",
		"host_port", cfg.TemporalHostPort,
		"namespace", cfg.TemporalNamespace,
		"task_queue", cfg.TemporalTaskQueue,
	)
	return &TemporalClient{Client: c, TaskQueue: cfg.TemporalTaskQueue, log: log}, nil
}

// Ping implements httpx.HealthChecker.
func (tc *TemporalClient) Ping(ctx context.Context) error {
	if _, err := tc.Client.CheckHealth(ctx, &client.CheckHealthRequest{}); err != nil {
		return fmt.Errorf("temporal health: %w", err)
	}
	return nil
}

func (tc *TemporalClient) Close() {
	tc.Client.Close()
	tc.log.Info("temporal client closed")
}

// NewWorker returns a worker polling the client's task queue. register adds
// the workflows and activities it runs.
func (tc *TemporalClient) NewWorker(register func(worker.Registry)) worker.Worker {
	w := worker.New(tc.Client, tc.TaskQueue, worker.Options{})
	register(w)
	return w
}
