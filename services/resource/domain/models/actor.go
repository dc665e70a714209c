package models

import "github.com/google/uuid"

// Role is the platform role of the caller.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleCoordinator Role = "coordinator"
	RoleVolunteer   Role = "volunteer"
)

// Actor is the authenticated caller of a custody operation.
type Actor struct {
	UserID         uuid.UUID
	Role           Role
	OrganizationID uuid.UUID // zero for platform admins
	VolunteerID    uuid.UUID // set when the user has a volunteer profile
}

// IsAdmin reports whether the actor is a platform admin.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanLend reports whether the actor may issue and reconcile resources owned by orgID.
func (a Actor) CanLend(orgID uuid.UUID) bool {
	if a.IsAdmin() {
		return true
	}
	return a.Role == RoleCoordinator && a.OrganizationID != uuid.Nil && a.OrganizationID == orgID
}

// CanView reports whether the actor may read resources owned by orgID.
func (a Actor) CanView(orgID uuid.UUID) bool {
	if a.IsAdmin() {
		return true
	}
	return a.OrganizationID != uuid.Nil && a.OrganizationID == orgID
}
