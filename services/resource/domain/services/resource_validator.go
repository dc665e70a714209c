// Package services contains stateless domain services for the resource bounded context.
// Domain services enforce business rules that operate purely on domain types
// and never touch infrastructure.
package services

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/ghuser/volunteerhub/services/resource/domain"
	"github.com/ghuser/volunteerhub/services/resource/domain/models"
)

// ValidateName enforces business rules for ResourceName beyond the structural
// constraints enforced by the ResourceName constructor (length 1–255).
//
// Business rules:
//   - No leading or trailing whitespace
//   - No control characters (Unicode category Cc)
//   - No consecutive spaces
//   - Must not be only whitespace characters
func ValidateName(name models.ResourceName) error {
	s := name.String()

	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("resource name must not be only whitespace")
	}

	if s != strings.TrimSpace(s) {
		return fmt.Errorf("resource name must not have leading or trailing whitespace")
	}

	for _, r := range s {
		if unicode.IsControl(r) {
			return fmt.Errorf("resource name must not contain control characters")
		}
	}

	if strings.Contains(s, "  ") {
		return fmt.Errorf("resource name must not contain consecutive spaces")
	}

	return nil
}

// ValidateResourceForCreation performs cross-field validation on a resource
// built via models.NewResource before it is persisted.
func ValidateResourceForCreation(r *models.Resource) error {
	if r == nil {
		return fmt.Errorf("resource cannot be nil")
	}

	if err := ValidateName(r.Name); err != nil {
		return fmt.Errorf("invalid name: %w", err)
	}

	if r.OrganizationID == uuid.Nil {
		return fmt.Errorf("organization_id must be set")
	}

	if r.ID == uuid.Nil {
		return fmt.Errorf("id must be set")
	}

	if !r.Status.Valid() {
		return fmt.Errorf("unknown status %q", r.Status)
	}

	if r.QuantityTotal < 0 || r.QuantityAvailable < 0 {
		return fmt.Errorf("quantities must not be negative")
	}

	if r.QuantityAvailable > r.QuantityTotal {
		return fmt.Errorf("quantity_available (%d) exceeds quantity_total (%d)", r.QuantityAvailable, r.QuantityTotal)
	}

	if r.IsSerialized() && r.QuantityTotal != 1 {
		return fmt.Errorf("serialized resource must have quantity_total 1, got %d", r.QuantityTotal)
	}

	return nil
}

// CheckIssuable reports why n units of r cannot be distributed, or nil.
// Serialized units that are damaged, in maintenance or already in use are
// unavailable; a short pool is ErrInsufficientStock.
func CheckIssuable(r *models.Resource, n int) error {
	if r.HoldsStatus() {
		return fmt.Errorf("%w: resource is %s", domain.ErrResourceUnavailable, r.Status)
	}
	if r.IsSerialized() && r.Status == models.StatusInUse {
		return fmt.Errorf("%w: serialized resource %s is in use", domain.ErrResourceUnavailable, r.SerialNumber)
	}
	if r.IsSerialized() && n != 1 {
		return fmt.Errorf("%w: serialized resource is issued one unit at a time", domain.ErrResourceUnavailable)
	}
	if r.QuantityAvailable < n {
		return fmt.Errorf("%w: %d available, %d requested", domain.ErrInsufficientStock, r.QuantityAvailable, n)
	}
	return nil
}
