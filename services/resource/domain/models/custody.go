package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EntityTypeResource is the audit_logs.entity_type of custody entries.
const EntityTypeResource = "resource"

// CustodyKind tags the variant of a CustodyEvent.
type CustodyKind string

const (
	KindProvisioned     CustodyKind = "provisioned"
	KindDistributed     CustodyKind = "distributed"
	KindReturnRequested CustodyKind = "return_requested"
	KindReturnConfirmed CustodyKind = "return_confirmed"
)

// Human-readable audit labels.
const (
	ActionAllocatedToOrganization = "Allocated to Organization"
	ActionAssignedToVolunteer     = "Assigned to Volunteer"
	ActionAssignedToEvent         = "Assigned to Event"
	ActionReturnRequested         = "Return Requested"
	ActionReturnConfirmed         = "Return Confirmed"
)

// ResourceState is the ledger snapshot recorded before and after each custody event.
type ResourceState struct {
	OrganizationID    uuid.UUID      `json:"organization_id"`
	Status            ResourceStatus `json:"status"`
	QuantityAvailable int            `json:"quantity_available"`
	QuantityTotal     int            `json:"quantity_total"`
}

// ResourceTransition pairs the ledger state around one custody event.
type ResourceTransition struct {
	Before ResourceState `json:"before"`
	After  ResourceState `json:"after"`
}

// Describe renders the ledger change, e.g. "status in_use -> available, available 0 -> 1".
func (t ResourceTransition) Describe() string {
	var parts []string
	if t.Before.OrganizationID != t.After.OrganizationID {
		parts = append(parts, fmt.Sprintf("organization %s -> %s", t.Before.OrganizationID, t.After.OrganizationID))
	}
	if t.Before.Status != t.After.Status {
		parts = append(parts, fmt.Sprintf("status %s -> %s", t.Before.Status, t.After.Status))
	}
	if t.Before.QuantityAvailable != t.After.QuantityAvailable {
		parts = append(parts, fmt.Sprintf("available %d -> %d", t.Before.QuantityAvailable, t.After.QuantityAvailable))
	}
	if len(parts) == 0 {
		return "resource unchanged"
	}
	return strings.Join(parts, ", ")
}

// CustodyEvent is the typed view over a custody audit entry. The variants are
// Provisioned, Distributed, ReturnRequested and ReturnConfirmed; consumers
// type-switch on them instead of comparing action strings.
type CustodyEvent interface {
	Kind() CustodyKind
	Action() string
	ResourceChange() ResourceTransition
	// AssignmentRef is the assignment touched by the event, or uuid.Nil.
	AssignmentRef() uuid.UUID
	Describe() string
	isCustodyEvent()
}

// Provisioned records an admin (re)allocating a resource to an organization.
type Provisioned struct {
	Resource           ResourceTransition `json:"resource"`
	FromOrganizationID uuid.UUID          `json:"from_organization_id"`
	ToOrganizationID   uuid.UUID          `json:"to_organization_id"`
}

func (Provisioned) Kind() CustodyKind                    { return KindProvisioned }
func (Provisioned) Action() string                       { return ActionAllocatedToOrganization }
func (e Provisioned) ResourceChange() ResourceTransition { return e.Resource }
func (Provisioned) AssignmentRef() uuid.UUID             { return uuid.Nil }
func (Provisioned) isCustodyEvent()                      {}

func (e Provisioned) Describe() string {
	if e.FromOrganizationID == e.ToOrganizationID {
		return fmt.Sprintf("re-provisioned to organization %s", e.ToOrganizationID)
	}
	return fmt.Sprintf("organization %s -> %s", e.FromOrganizationID, e.ToOrganizationID)
}

// Distributed records units issued to a volunteer or event.
type Distributed struct {
	Resource         ResourceTransition `json:"resource"`
	AssignmentID     uuid.UUID          `json:"assignment_id"`
	AssigneeType     AssignmentType     `json:"assignee_type"`
	AssigneeID       uuid.UUID          `json:"assignee_id"`
	Quantity         int                `json:"quantity"`
	ExpectedReturnAt *time.Time         `json:"expected_return_at,omitempty"`
	Notes            string             `json:"notes,omitempty"`
}

func (Distributed) Kind() CustodyKind                    { return KindDistributed }
func (e Distributed) ResourceChange() ResourceTransition { return e.Resource }
func (e Distributed) AssignmentRef() uuid.UUID           { return e.AssignmentID }
func (Distributed) isCustodyEvent()                      {}

func (e Distributed) Action() string {
	if e.AssigneeType == AssignToEvent {
		return ActionAssignedToEvent
	}
	return ActionAssignedToVolunteer
}

func (e Distributed) Describe() string {
	return fmt.Sprintf("assignment -> %s (%d to %s %s); %s",
		AssignmentInUse, e.Quantity, e.AssigneeType, e.AssigneeID, e.Resource.Describe())
}

// ReturnRequested records the borrower signalling a return.
type ReturnRequested struct {
	Resource     ResourceTransition `json:"resource"`
	AssignmentID uuid.UUID          `json:"assignment_id"`
	VolunteerID  uuid.UUID          `json:"volunteer_id"`
}

func (ReturnRequested) Kind() CustodyKind                    { return KindReturnRequested }
func (ReturnRequested) Action() string                       { return ActionReturnRequested }
func (e ReturnRequested) ResourceChange() ResourceTransition { return e.Resource }
func (e ReturnRequested) AssignmentRef() uuid.UUID           { return e.AssignmentID }
func (ReturnRequested) isCustodyEvent()                      {}

func (e ReturnRequested) Describe() string {
	return fmt.Sprintf("assignment %s -> %s", AssignmentInUse, AssignmentPendingReturn)
}

// ReturnConfirmed records the lender reconciling a physical return.
type ReturnConfirmed struct {
	Resource     ResourceTransition `json:"resource"`
	AssignmentID uuid.UUID          `json:"assignment_id"`
	From         AssignmentStatus   `json:"from"`
	Condition    string             `json:"condition"`
	Quantity     int                `json:"quantity"`
	Restocked    bool               `json:"restocked"`
	Notes        string             `json:"notes,omitempty"`
}

func (ReturnConfirmed) Kind() CustodyKind                    { return KindReturnConfirmed }
func (ReturnConfirmed) Action() string                       { return ActionReturnConfirmed }
func (e ReturnConfirmed) ResourceChange() ResourceTransition { return e.Resource }
func (e ReturnConfirmed) AssignmentRef() uuid.UUID           { return e.AssignmentID }
func (ReturnConfirmed) isCustodyEvent()                      {}

func (e ReturnConfirmed) Describe() string {
	return fmt.Sprintf("assignment %s -> %s (condition: %s); %s",
		e.From, AssignmentReturned, e.Condition, e.Resource.Describe())
}

// CustodyEntry is one immutable link of a resource's custody chain.
type CustodyEntry struct {
	ID          uuid.UUID
	ActorUserID uuid.UUID
	ResourceID  uuid.UUID
	Sequence    int64 // 1-based, strictly increasing per resource in commit order
	Event       CustodyEvent
	CreatedAt   time.Time
}

// NewCustodyEntry constructs an entry with generated ID and current timestamp.
func NewCustodyEntry(actorUserID, resourceID uuid.UUID, sequence int64, ev CustodyEvent) *CustodyEntry {
	return &CustodyEntry{
		ID:          uuid.New(),
		ActorUserID: actorUserID,
		ResourceID:  resourceID,
		Sequence:    sequence,
		Event:       ev,
		CreatedAt:   time.Now().UTC(),
	}
}

// Action returns the audit label of the entry.
func (e *CustodyEntry) Action() string {
	return e.Event.Action()
}

// custodyEnvelope is the JSON layout of audit_logs.metadata for custody entries.
type custodyEnvelope struct {
	Kind         CustodyKind     `json:"kind"`
	AssignmentID *uuid.UUID      `json:"assignment_id,omitempty"`
	Transition   string          `json:"transition"`
	Timestamp    time.Time       `json:"timestamp"`
	Data         json.RawMessage `json:"data"`
}

// EncodeCustodyMetadata renders ev as audit metadata.
func EncodeCustodyMetadata(ev CustodyEvent, at time.Time) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", ev.Kind(), err)
	}
	env := custodyEnvelope{
		Kind:       ev.Kind(),
		Transition: ev.Describe(),
		Timestamp:  at.UTC(),
		Data:       data,
	}
	if id := ev.AssignmentRef(); id != uuid.Nil {
		env.AssignmentID = &id
	}
	return json.Marshal(env)
}

// DecodeCustodyMetadata parses audit metadata back into its CustodyEvent variant.
func DecodeCustodyMetadata(raw []byte) (CustodyEvent, error) {
	var env custodyEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("unmarshal custody envelope: %w", err)
	}

	var ev CustodyEvent
	var err error
	switch env.Kind {
	case KindProvisioned:
		var e Provisioned
		err = json.Unmarshal(env.Data, &e)
		ev = e
	case KindDistributed:
		var e Distributed
		err = json.Unmarshal(env.Data, &e)
		ev = e
	case KindReturnRequested:
		var e ReturnRequested
		err = json.Unmarshal(env.Data, &e)
		ev = e
	case KindReturnConfirmed:
		var e ReturnConfirmed
		err = json.Unmarshal(env.Data, &e)
		ev = e
	default:
		return nil, fmt.Errorf("unknown custody event kind %q", env.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("unmarshal %s event: %w", env.Kind, err)
	}
	return ev, nil
}
