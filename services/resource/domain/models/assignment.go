package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AssignmentStatus is the lifecycle state of an assignment.
type AssignmentStatus string

const (
	AssignmentInUse         AssignmentStatus = "IN_USE"
	AssignmentPendingReturn AssignmentStatus = "PENDING_RETURN"
	AssignmentReturned      AssignmentStatus = "RETURNED"
)

// AssignmentType names the kind of borrower.
type AssignmentType string

const (
	AssignToVolunteer AssignmentType = "volunteer"
	AssignToEvent     AssignmentType = "event"
)

// Valid reports whether t is a known assignment type.
func (t AssignmentType) Valid() bool {
	return t == AssignToVolunteer || t == AssignToEvent
}

// ConditionDamaged is the return condition that keeps a unit out of stock.
const ConditionDamaged = "damaged"

// transitions lists the permitted moves of the state machine. RETURNED is terminal.
var transitions = map[AssignmentStatus][]AssignmentStatus{
	AssignmentInUse:         {AssignmentPendingReturn, AssignmentReturned},
	AssignmentPendingReturn: {AssignmentReturned},
}

// CanTransition reports whether the state machine permits from -> to.
func CanTransition(from, to AssignmentStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// SourcesOf returns every status that may move to `to`.
func SourcesOf(to AssignmentStatus) []AssignmentStatus {
	var out []AssignmentStatus
	for _, from := range []AssignmentStatus{AssignmentInUse, AssignmentPendingReturn, AssignmentReturned} {
		if CanTransition(from, to) {
			out = append(out, from)
		}
	}
	return out
}

// Assignment is one issuance of a resource to a volunteer or event.
type Assignment struct {
	ID               uuid.UUID
	ResourceID       uuid.UUID
	Type             AssignmentType
	RelatedID        uuid.UUID // volunteer or event id
	Quantity         int
	Status           AssignmentStatus
	AssignedAt       time.Time
	ExpectedReturnAt *time.Time
	ReturnedAt       *time.Time
	Condition        string
	Notes            string
	AssignedBy       uuid.UUID
	IdempotencyKey   string
}

// NewAssignment constructs an IN_USE assignment with generated ID.
func NewAssignment(resourceID uuid.UUID, typ AssignmentType, relatedID uuid.UUID, quantity int, assignedBy uuid.UUID) *Assignment {
	if quantity <= 0 {
		quantity = 1
	}
	return &Assignment{
		ID:         uuid.New(),
		ResourceID: resourceID,
		Type:       typ,
		RelatedID:  relatedID,
		Quantity:   quantity,
		Status:     AssignmentInUse,
		AssignedAt: time.Now().UTC(),
		AssignedBy: assignedBy,
	}
}

// IsBorrower reports whether volunteerID is the volunteer holding this assignment.
func (a *Assignment) IsBorrower(volunteerID uuid.UUID) bool {
	return a.Type == AssignToVolunteer && volunteerID != uuid.Nil && a.RelatedID == volunteerID
}

// RequestReturn moves IN_USE to PENDING_RETURN. Returns false if not permitted.
func (a *Assignment) RequestReturn() bool {
	if !CanTransition(a.Status, AssignmentPendingReturn) {
		return false
	}
	a.Status = AssignmentPendingReturn
	return true
}

// ConfirmReturn moves IN_USE or PENDING_RETURN to RETURNED and records the
// reconciliation. Returns false if not permitted.
func (a *Assignment) ConfirmReturn(condition, notes string, at time.Time) bool {
	if !CanTransition(a.Status, AssignmentReturned) {
		return false
	}
	a.Status = AssignmentReturned
	a.ReturnedAt = &at
	a.Condition = condition
	if notes != "" {
		a.Notes = notes
	}
	return true
}

// NormalizeCondition trims and lowercases a return condition.
func NormalizeCondition(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}

// IsDamaged reports whether the normalized condition keeps the unit out of stock.
func IsDamaged(condition string) bool {
	return NormalizeCondition(condition) == ConditionDamaged
}
