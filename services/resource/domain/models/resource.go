package models

import (
	"time"

	"github.com/google/uuid"
)

// ResourceStatus is the ledger status of a resource.
type ResourceStatus string

const (
	StatusAvailable   ResourceStatus = "available"
	StatusInUse       ResourceStatus = "in_use"
	StatusReserved    ResourceStatus = "reserved"
	StatusDamaged     ResourceStatus = "damaged"
	StatusMaintenance ResourceStatus = "maintenance"
)

// Valid reports whether s is a known status.
func (s ResourceStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusInUse, StatusReserved, StatusDamaged, StatusMaintenance:
		return true
	}
	return false
}

// Sticky reports whether the status describes the condition of the stock
// rather than its level. It blocks only serialized units, see HoldsStatus.
func (s ResourceStatus) Sticky() bool {
	return s == StatusDamaged || s == StatusMaintenance
}

// Resource is a stock item or stock pool owned by one organization.
type Resource struct {
	ID                uuid.UUID
	OrganizationID    uuid.UUID // tenant scope
	Name              ResourceName
	Category          string
	Description       string
	QuantityTotal     int
	QuantityAvailable int
	SerialNumber      string // empty for bulk stock
	IsReturnable      bool
	Status            ResourceStatus
	Location          string
	CustodySeq        int64 // last custody sequence issued
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewResourceParams holds the caller-supplied fields of a new resource.
type NewResourceParams struct {
	OrganizationID    uuid.UUID
	Name              ResourceName
	Category          string
	Description       string
	QuantityTotal     int
	QuantityAvailable *int // defaults to QuantityTotal
	SerialNumber      string
	IsReturnable      bool
	Status            ResourceStatus // defaults to available
	Location          string
}

// NewResource constructs a Resource with generated ID and timestamps.
// A serialized resource is always a single unit.
func NewResource(p NewResourceParams) *Resource {
	now := time.Now().UTC()
	total := p.QuantityTotal
	if p.SerialNumber != "" && total == 0 {
		total = 1
	}
	available := total
	if p.QuantityAvailable != nil {
		available = *p.QuantityAvailable
	}
	status := p.Status
	if status == "" {
		status = StatusAvailable
	}
	r := &Resource{
		ID:                uuid.New(),
		OrganizationID:    p.OrganizationID,
		Name:              p.Name,
		Category:          p.Category,
		Description:       p.Description,
		QuantityTotal:     total,
		QuantityAvailable: available,
		SerialNumber:      p.SerialNumber,
		IsReturnable:      p.IsReturnable,
		Status:            status,
		Location:          p.Location,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if !r.Status.Sticky() {
		r.Status = r.DerivedStatus()
	}
	return r
}

// IsSerialized reports whether the resource is a uniquely identified unit.
func (r *Resource) IsSerialized() bool {
	return r.SerialNumber != ""
}

// HoldsStatus reports whether a damaged or maintenance status blocks the
// resource. For a serialized unit the status is the unit's condition. A pool
// keeps serving its remaining units, and the next stock change re-derives it.
func (r *Resource) HoldsStatus() bool {
	return r.IsSerialized() && r.Status.Sticky()
}

// DerivedStatus returns the status implied by the current stock level:
// a held status is kept, an empty pool is in_use, and a pool with stock back
// is available again.
func (r *Resource) DerivedStatus() ResourceStatus {
	if r.HoldsStatus() {
		return r.Status
	}
	if r.QuantityAvailable == 0 {
		return StatusInUse
	}
	if r.Status == StatusInUse || r.Status.Sticky() {
		return StatusAvailable
	}
	return r.Status
}

// State returns the custody-relevant snapshot of the resource.
func (r *Resource) State() ResourceState {
	return ResourceState{
		OrganizationID:    r.OrganizationID,
		Status:            r.Status,
		QuantityAvailable: r.QuantityAvailable,
		QuantityTotal:     r.QuantityTotal,
	}
}
