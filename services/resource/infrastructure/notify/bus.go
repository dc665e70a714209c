// Package notify delivers realtime custody notifications. Every sink is best
// effort: callers log Emit errors and never undo the custody operation.
package notify

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	pkgevents "github.com/ghuser/volunteerhub/pkg/events"
	"github.com/ghuser/volunteerhub/services/resource/domain/events"
)

// Publisher is the publishing half of *events.EventBus.
type Publisher interface {
	Publish(ctx context.Context, topic string, msgs ...*message.Message) error
}

// BusSink publishes notifications to the event bus for cmd/worker to deliver.
type BusSink struct {
	bus Publisher
}

// NewBusSink returns a BusSink publishing through bus.
func NewBusSink(bus Publisher) *BusSink {
	return &BusSink{bus: bus}
}

// Emit publishes n on the topic of its kind.
func (s *BusSink) Emit(ctx context.Context, n events.Notification) error {
	topic := n.Kind.Topic()
	if topic == "" {
		return fmt.Errorf("notify: unknown notification kind %q", n.Kind)
	}
	msg, err := pkgevents.NewMessage(n.EventID, n.Version, n)
	if err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	return s.bus.Publish(ctx, topic, msg)
}

// Decode parses a notification published by BusSink. Errors wrap
// pkgevents.ErrPermanent.
func Decode(msg *message.Message) (events.Notification, error) {
	return pkgevents.Decode[events.Notification](msg)
}
