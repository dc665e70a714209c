package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/ghuser/volunteerhub/pkg/errhttp"
	"github.com/ghuser/volunteerhub/pkg/httpx"
	pkgvalidator "github.com/ghuser/volunteerhub/pkg/validator"
	appsvcs "github.com/ghuser/volunteerhub/services/resource/application/services"
)

// ProvisionRequest is the request body for POST /resources/provision.
type ProvisionRequest struct {
	ResourceIDs    []uuid.UUID `json:"resource_ids"    validate:"required,min=1,max=500" example:"550e8400-e29b-41d4-a716-446655440000"`
	OrganizationID uuid.UUID   `json:"organization_id" validate:"required"               example:"7c9e6679-7425-40de-944b-e07fc1f90ae7"`
} // @name ProvisionRequest

// PostProvisionHandler handles POST /resources/provision requests.
type PostProvisionHandler struct {
	svc *appsvcs.Services
}

// NewPostProvisionHandler returns a PostProvisionHandler backed by the given services.
func NewPostProvisionHandler(svc *appsvcs.Services) *PostProvisionHandler {
	return &PostProvisionHandler{svc: svc}
}

// Execute allocates resources to an organization.
//
//	@Summary		Provision resources
//	@Description	Allocates resources to an organization and records one custody entry per resource. Admin only.
//	@Tags			resources
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ProvisionRequest	true	"Resources and target organization"
//	@Success		200		{object}	MessageResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/resources/provision [post]
func (h *PostProvisionHandler) Execute(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	req, ok := pkgvalidator.ValidateRequest[ProvisionRequest](w, r)
	if !ok {
		return
	}

	n, err := h.svc.Allocation.Provision(r.Context(), actor, appsvcs.ProvisionInput{
		ResourceIDs:    req.ResourceIDs,
		OrganizationID: req.OrganizationID,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, MessageResponse{Message: fmt.Sprintf("%d resources provisioned", n)})
}
