package services

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/volunteerhub/pkg/logger"
	"github.com/ghuser/volunteerhub/pkg/telemetry"
	"github.com/ghuser/volunteerhub/services/resource/domain"
)

const instrumentationName = "github.com/ghuser/volunteerhub/services/resource"

// instruments records a span and a custody.operations count per operation.
type instruments struct {
	tracer trace.Tracer
	ops    metric.Int64Counter
	log    logger.Logger
}

func newInstruments(log logger.Logger) instruments {
	ops, err := otel.Meter(instrumentationName).Int64Counter("custody.operations",
		metric.WithDescription("Custody operations by outcome"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		log.Warn("custody.operations counter unavailable", "error", err)
		ops = noop.Int64Counter{}
	}
	return instruments{tracer: otel.Tracer(instrumentationName), ops: ops, log: log}
}

// start opens the span of op. The returned func ends it; pass it the
// operation's error.
func (in instruments) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := in.tracer.Start(ctx, "resource."+op, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		outcome := "ok"
		if err != nil {
			outcome = outcomeOf(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
			if errors.Is(err, domain.ErrLedgerCorruption) {
				in.log.ErrorContext(ctx, "resource ledger corruption", "operation", op, "error", err)
				telemetry.CaptureError(ctx, err, map[string]string{"operation": op})
			}
		}
		in.ops.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", op),
			attribute.String("outcome", outcome),
		))
		span.End()
	}
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrLedgerCorruption):
		return "ledger_corruption"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrResourceNotFound), errors.Is(err, domain.ErrAssignmentNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrResourceUnavailable),
		errors.Is(err, domain.ErrResourceNotReturnable),
		errors.Is(err, domain.ErrInvalidStateTransition),
		errors.Is(err, domain.ErrInvalidResource),
		errors.Is(err, domain.ErrIdempotencyConflict),
		errors.Is(err, domain.ErrResourceAlreadyExists):
		return "rejected"
	default:
		return "error"
	}
}
