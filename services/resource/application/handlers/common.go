// Package handlers exposes the resource custody operations over HTTP.
// Every handler reads the caller from the session principal set by
// auth.RequireAuth and maps domain errors through errhttp.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/volunteerhub/pkg/auth"
	"github.com/ghuser/volunteerhub/pkg/httpx"
	"github.com/ghuser/volunteerhub/services/resource/domain/models"
	"github.com/ghuser/volunteerhub/services/resource/domain/repositories"
)

const maxPageSize = 100

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"resource not found"`
} // @name ErrorResponse

// MessageResponse is returned by operations without a payload.
type MessageResponse struct {
	Message string `json:"message" example:"Resources provisioned"`
} // @name MessageResponse

// AssignmentEnvelope wraps an assignment with a status message.
type AssignmentEnvelope struct {
	Message string             `json:"message" example:"Resource distributed"`
	Data    AssignmentResponse `json:"data"`
} // @name AssignmentEnvelope

// AssignmentResponse is the wire form of an assignment.
type AssignmentResponse struct {
	ID               uuid.UUID  `json:"id"                           example:"123e4567-e89b-12d3-a456-426614174000"`
	ResourceID       uuid.UUID  `json:"resource_id"                  example:"550e8400-e29b-41d4-a716-446655440000"`
	AssignmentType   string     `json:"assignment_type"              example:"volunteer"`
	RelatedID        uuid.UUID  `json:"related_id"                   example:"7c9e6679-7425-40de-944b-e07fc1f90ae7"`
	Quantity         int        `json:"quantity"                     example:"1"`
	Status           string     `json:"status"                       example:"IN_USE"`
	AssignedAt       time.Time  `json:"assigned_at"                  example:"2024-01-15T10:30:00Z"`
	ExpectedReturnAt *time.Time `json:"expected_return_at,omitempty" example:"2024-01-20T10:30:00Z"`
	ReturnedAt       *time.Time `json:"returned_at,omitempty"`
	Condition        string     `json:"condition,omitempty"          example:"good"`
	Notes            string     `json:"notes,omitempty"`
	AssignedBy       uuid.UUID  `json:"assigned_by"`
} // @name AssignmentResponse

// ResourceResponse is the wire form of a resource.
type ResourceResponse struct {
	ID                uuid.UUID `json:"id"                      example:"550e8400-e29b-41d4-a716-446655440000"`
	OrganizationID    uuid.UUID `json:"organization_id"`
	Name              string    `json:"name"                    example:"Handheld radio"`
	Category          string    `json:"category"                example:"comms"`
	Description       string    `json:"description,omitempty"`
	QuantityTotal     int       `json:"quantity_total"          example:"10"`
	QuantityAvailable int       `json:"quantity_available"      example:"7"`
	SerialNumber      string    `json:"serial_number,omitempty" example:"RAD-0042"`
	IsReturnable      bool      `json:"is_returnable"           example:"true"`
	Status            string    `json:"status"                  example:"available"`
	Location          string    `json:"location,omitempty"      example:"Depot A"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
} // @name ResourceResponse

func toAssignmentResponse(a *models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:               a.ID,
		ResourceID:       a.ResourceID,
		AssignmentType:   string(a.Type),
		RelatedID:        a.RelatedID,
		Quantity:         a.Quantity,
		Status:           string(a.Status),
		AssignedAt:       a.AssignedAt,
		ExpectedReturnAt: a.ExpectedReturnAt,
		ReturnedAt:       a.ReturnedAt,
		Condition:        a.Condition,
		Notes:            a.Notes,
		AssignedBy:       a.AssignedBy,
	}
}

func toResourceResponse(r *models.Resource) ResourceResponse {
	return ResourceResponse{
		ID:                r.ID,
		OrganizationID:    r.OrganizationID,
		Name:              r.Name.String(),
		Category:          r.Category,
		Description:       r.Description,
		QuantityTotal:     r.QuantityTotal,
		QuantityAvailable: r.QuantityAvailable,
		SerialNumber:      r.SerialNumber,
		IsReturnable:      r.IsReturnable,
		Status:            string(r.Status),
		Location:          r.Location,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// actorFrom returns the authenticated caller, writing 401 when there is none.
func actorFrom(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	p, err := auth.PrincipalFromCtx(r.Context())
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return models.Actor{}, false
	}
	return models.Actor{
		UserID:         p.UserID,
		Role:           models.Role(p.Role),
		OrganizationID: p.OrgID,
		VolunteerID:    p.VolunteerID,
	}, true
}

// pathID parses the {id} URL parameter, writing 400 when it is not a UUID.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "id must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

// pageOpts reads limit and offset query parameters.
func pageOpts(w http.ResponseWriter, r *http.Request) (repositories.QueryOpts, bool) {
	var opts repositories.QueryOpts
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *int
	}{{"limit", &opts.Limit}, {"offset", &opts.Offset}} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: p.name + " must be a non-negative integer"})
			return opts, false
		}
		*p.dst = n
	}
	if opts.Limit > maxPageSize {
		opts.Limit = maxPageSize
	}
	return opts, true
}
