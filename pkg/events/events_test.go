package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/volunteerhub/pkg/config"
	"github.com/ghuser/volunteerhub/pkg/database/dbtest"
	"github.com/ghuser/volunteerhub/pkg/logger"
)

func quietLogger() logger.Logger {
	return logger.New(&config.Config{LogLevel: "error"})
}

func TestRetryPolicy_Run(t *testing.T) {
	transient := errors.New("transient")
	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   bool
	}{
		{"first attempt succeeds", 0, transient, 1, false},
		{"succeeds on last attempt", 2, transient, 3, false},
		{"attempts exhausted", 10, transient, 3, true},
		{"permanent error is not retried", 10, ErrPermanent, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			p := RetryPolicy{Attempts: 3, BaseDelay: time.Millisecond}
			err := p.Run(context.Background(), quietLogger(), func(context.Context) error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, tt.err) {
				t.Errorf("Run() error = %v, want it to wrap %v", err, tt.err)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryPolicy_CancelledContextStopsWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	p := RetryPolicy{Attempts: 5, BaseDelay: time.Hour}
	err := p.Run(ctx, quietLogger(), func(context.Context) error {
		calls++
		return errors.New("down")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

type sample struct {
	ResourceID uuid.UUID `json:"resource_id"`
	Sequence   int64     `json:"sequence"`
}

func TestNewMessageAndDecode(t *testing.T) {
	id := uuid.New()
	in := sample{ResourceID: uuid.New(), Sequence: 7}

	msg, err := NewMessage(id, 2, in)
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	if msg.UUID != id.String() {
		t.Errorf("UUID = %s, want event id %s", msg.UUID, id)
	}
	if got := msg.Metadata.Get(MetaEventID); got != id.String() {
		t.Errorf("event_id metadata = %q", got)
	}
	if got := msg.Metadata.Get(MetaEventVersion); got != "2" {
		t.Errorf("event_version metadata = %q, want 2", got)
	}

	out, err := Decode[sample](msg)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out != in {
		t.Errorf("Decode() = %+v, want %+v", out, in)
	}
}

func TestDecode_MalformedIsPermanent(t *testing.T) {
	_, err := Decode[sample](message.NewMessage("m-1", []byte("{not json")))
	if !errors.Is(err, ErrPermanent) {
		t.Fatalf("Decode() error = %v, want ErrPermanent", err)
	}
}

func TestStartForwarder_WithoutOutbox(t *testing.T) {
	b := &EventBus{withOutbox: false}
	if err := b.StartForwarder(context.Background()); err == nil {
		t.Fatal("expected error for a bus built without an outbox")
	}
}

func TestNewEventBus_RejectsSQLite(t *testing.T) {
	db := dbtest.New(t)
	_, err := NewEventBus(db, &config.Config{ServiceName: "volunteerhub"}, quietLogger())
	if err == nil {
		t.Fatal("expected error for sqlite database")
	}
}

func TestTracePropagatesThroughMetadata(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	ctx, span := otel.Tracer("test").Start(context.Background(), "distribute")
	defer span.End()

	msg, err := NewMessage(uuid.New(), 1, sample{})
	if err != nil {
		t.Fatal(err)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(msg.Metadata))

	got := trace.SpanFromContext(otel.GetTextMapPropagator().Extract(context.Background(), propagation.MapCarrier(msg.Metadata)))
	if got.SpanContext().TraceID() != span.SpanContext().TraceID() {
		t.Errorf("trace id = %s, want %s", got.SpanContext().TraceID(), span.SpanContext().TraceID())
	}
}
