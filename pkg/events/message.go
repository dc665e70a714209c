package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// Metadata keys stamped on every message built by NewMessage.
const (
	MetaEventID      = "event_id"
	MetaEventVersion = "event_version"
)

// ErrPermanent marks handler failures that retrying cannot fix, such as an
// undecodable payload. The bus stops retrying and drops the message.
var ErrPermanent = errors.New("permanent failure")

// NewMessage encodes payload as JSON. The message UUID is the event id, so
// redeliveries of one event share it.
func NewMessage(eventID uuid.UUID, version int, payload any) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("events: encode %T: %w", payload, err)
	}
	msg := message.NewMessage(eventID.String(), body)
	msg.Metadata.Set(MetaEventID, eventID.String())
	msg.Metadata.Set(MetaEventVersion, strconv.Itoa(version))
	return msg, nil
}

// Decode parses the JSON payload of msg into T. Decoding failures wrap
// ErrPermanent.
func Decode[T any](msg *message.Message) (T, error) {
	var v T
	if err := json.Unmarshal(msg.Payload, &v); err != nil {
		return v, fmt.Errorf("events: decode %T from %s: %w: %w", v, msg.UUID, ErrPermanent, err)
	}
	return v, nil
}
