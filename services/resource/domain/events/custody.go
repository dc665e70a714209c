package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Watermill topics published by the resource service.
const (
	// TopicCustodyRecorded is published in the same transaction as every custody entry.
	TopicCustodyRecorded = "resource.custody_recorded"

	// Realtime notification topics, delivered by cmd/worker.
	TopicResourceDistributed = "resource.distributed"
	TopicReturnRequested     = "resource.return_requested"
	TopicReturnOverdue       = "resource.return_overdue"
)

// NotificationKind identifies a realtime notification.
type NotificationKind string

const (
	NotifyDistributed     NotificationKind = "distributed"
	NotifyReturnRequested NotificationKind = "return_requested"
	NotifyReturnOverdue   NotificationKind = "return_overdue"
)

// Topic returns the Watermill topic carrying notifications of kind k.
func (k NotificationKind) Topic() string {
	switch k {
	case NotifyDistributed:
		return TopicResourceDistributed
	case NotifyReturnRequested:
		return TopicReturnRequested
	case NotifyReturnOverdue:
		return TopicReturnOverdue
	default:
		return ""
	}
}

// Notification is the best-effort realtime message emitted after a custody
// operation commits. Receivers deduplicate on EventID.
type Notification struct {
	EventID        uuid.UUID        `json:"event_id"`
	Version        int              `json:"version"`
	Kind           NotificationKind `json:"kind"`
	ResourceID     uuid.UUID        `json:"resource_id"`
	AssignmentID   uuid.UUID        `json:"assignment_id"`
	ActorUserID    uuid.UUID        `json:"actor_user_id"`
	OrganizationID uuid.UUID        `json:"organization_id"`
	RelatedID      uuid.UUID        `json:"related_id"` // borrower: volunteer or event id
	OccurredAt     time.Time        `json:"occurred_at"`
}

// NewNotification stamps a notification with a fresh event id and the current time.
func NewNotification(kind NotificationKind, resourceID, assignmentID, actorUserID, orgID, relatedID uuid.UUID) Notification {
	return Notification{
		EventID:        uuid.New(),
		Version:        1,
		Kind:           kind,
		ResourceID:     resourceID,
		AssignmentID:   assignmentID,
		ActorUserID:    actorUserID,
		OrganizationID: orgID,
		RelatedID:      relatedID,
		OccurredAt:     time.Now().UTC(),
	}
}

// Sink receives notifications after commit. Implementations decide transport;
// callers log Emit errors and never roll back on them.
type Sink interface {
	Emit(ctx context.Context, n Notification) error
}

// CustodyRecordedEvent mirrors a custody entry onto the event bus.
type CustodyRecordedEvent struct {
	EventID        uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version        int       `json:"version"`  // Schema version; increment on breaking changes
	EntryID        uuid.UUID `json:"entry_id"`
	ResourceID     uuid.UUID `json:"resource_id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Sequence       int64     `json:"sequence"`
	Kind           string    `json:"kind"`
	Action         string    `json:"action"`
	OccurredAt     time.Time `json:"occurred_at"`
}
