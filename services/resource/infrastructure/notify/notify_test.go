package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ghuser/volunteerhub/pkg/config"
	"github.com/ghuser/volunteerhub/pkg/logger"
	"github.com/ghuser/volunteerhub/services/resource/domain/events"
)

var testKey = []byte("test-notify-signing-key-32-bytes")

func sample(kind events.NotificationKind) events.Notification {
	return events.NewNotification(kind, uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New())
}

func TestHTTPSink_Emit(t *testing.T) {
	n := sample(events.NotifyDistributed)

	var got events.Notification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		claims := &jwt.RegisteredClaims{}
		tok, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) { return testKey, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !tok.Valid {
			http.Error(w, "bad token", http.StatusUnauthorized)
			return
		}
		if claims.Subject != string(events.NotifyDistributed) || claims.Issuer != tokenIssuer {
			http.Error(w, "bad claims", http.StatusUnauthorized)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sink := NewHTTPSink(srv.URL, testKey, time.Second)
	if err := sink.Emit(context.Background(), n); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if got.EventID != n.EventID || got.AssignmentID != n.AssignmentID || got.Kind != n.Kind {
		t.Fatalf("received %+v, want %+v", got, n)
	}
}

func TestHTTPSink_Errors(t *testing.T) {
	t.Run("non-2xx response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		err := NewHTTPSink(srv.URL, testKey, time.Second).Emit(context.Background(), sample(events.NotifyReturnRequested))
		if err == nil || !strings.Contains(err.Error(), "502") {
			t.Fatalf("Emit() = %v, want status error", err)
		}
	})

	t.Run("wrong key is rejected by receiver", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if _, err := jwt.Parse(raw, func(*jwt.Token) (any, error) { return testKey, nil }); err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		sink := NewHTTPSink(srv.URL, []byte("another-key-another-key-another!"), time.Second)
		if err := sink.Emit(context.Background(), sample(events.NotifyReturnOverdue)); err == nil {
			t.Fatal("expected error")
		}
	})
}

type capturePublisher struct {
	topic string
	msgs  []*message.Message
}

func (p *capturePublisher) Publish(_ context.Context, topic string, msgs ...*message.Message) error {
	p.topic = topic
	p.msgs = append(p.msgs, msgs...)
	return nil
}

func TestBusSink_Emit(t *testing.T) {
	pub := &capturePublisher{}
	n := sample(events.NotifyReturnRequested)

	if err := NewBusSink(pub).Emit(context.Background(), n); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if pub.topic != events.TopicReturnRequested || len(pub.msgs) != 1 {
		t.Fatalf("published %d messages to %q", len(pub.msgs), pub.topic)
	}
	if pub.msgs[0].Metadata.Get("event_id") != n.EventID.String() {
		t.Fatalf("event_id metadata = %q", pub.msgs[0].Metadata.Get("event_id"))
	}

	decoded, err := Decode(pub.msgs[0])
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.EventID != n.EventID || decoded.Kind != n.Kind {
		t.Fatalf("decoded %+v", decoded)
	}

	t.Run("unknown kind", func(t *testing.T) {
		if err := NewBusSink(pub).Emit(context.Background(), sample("bogus")); err == nil {
			t.Fatal("expected error for unknown kind")
		}
	})
}

type countingSink struct {
	calls atomic.Int32
	err   error
}

func (s *countingSink) Emit(context.Context, events.Notification) error {
	s.calls.Add(1)
	return s.err
}

func TestAsyncSink_SwallowsFailures(t *testing.T) {
	next := &countingSink{err: errors.New("gateway down")}
	sink := NewAsyncSink(next, time.Second, logger.New(&config.Config{LogLevel: "error"}))

	ctx, cancel := context.WithCancel(context.Background())
	for range 3 {
		if err := sink.Emit(ctx, sample(events.NotifyDistributed)); err != nil {
			t.Fatalf("Emit: %v", err)
		}
	}
	cancel()
	sink.Wait()

	if got := next.calls.Load(); got != 3 {
		t.Fatalf("delivered %d, want 3", got)
	}
}
