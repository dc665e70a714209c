package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ghuser/volunteerhub/pkg/errhttp"
	"github.com/ghuser/volunteerhub/pkg/httpx"
	pkgvalidator "github.com/ghuser/volunteerhub/pkg/validator"
	appsvcs "github.com/ghuser/volunteerhub/services/resource/application/services"
)

// ReturnRequest is the request body for POST /resources/return/request.
type ReturnRequest struct {
	AssignmentID uuid.UUID `json:"assignment_id" validate:"required" example:"123e4567-e89b-12d3-a456-426614174000"`
} // @name ReturnRequest

// ConfirmReturnRequest is the request body for POST /resources/return/confirm.
type ConfirmReturnRequest struct {
	AssignmentID uuid.UUID `json:"assignment_id" validate:"required"         example:"123e4567-e89b-12d3-a456-426614174000"`
	Condition    string    `json:"condition"     validate:"required,notblank,max=64" example:"good"`
	Notes        string    `json:"notes,omitempty" validate:"max=2000"`
} // @name ConfirmReturnRequest

// PostReturnRequestHandler handles POST /resources/return/request requests.
type PostReturnRequestHandler struct {
	svc *appsvcs.Services
}

// NewPostReturnRequestHandler returns a PostReturnRequestHandler backed by the given services.
func NewPostReturnRequestHandler(svc *appsvcs.Services) *PostReturnRequestHandler {
	return &PostReturnRequestHandler{svc: svc}
}

// Execute signals that the borrowing volunteer is returning a resource.
//
//	@Summary		Request return
//	@Description	Moves the caller's assignment from IN_USE to PENDING_RETURN
//	@Tags			resources
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ReturnRequest	true	"Assignment to return"
//	@Success		200		{object}	AssignmentEnvelope
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/resources/return/request [post]
func (h *PostReturnRequestHandler) Execute(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	req, ok := pkgvalidator.ValidateRequest[ReturnRequest](w, r)
	if !ok {
		return
	}

	asg, err := h.svc.Allocation.RequestReturn(r.Context(), actor, req.AssignmentID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, AssignmentEnvelope{Message: "Return requested", Data: toAssignmentResponse(asg)})
}

// PostConfirmReturnHandler handles POST /resources/return/confirm requests.
type PostConfirmReturnHandler struct {
	svc *appsvcs.Services
}

// NewPostConfirmReturnHandler returns a PostConfirmReturnHandler backed by the given services.
func NewPostConfirmReturnHandler(svc *appsvcs.Services) *PostConfirmReturnHandler {
	return &PostConfirmReturnHandler{svc: svc}
}

// Execute reconciles a physical return.
//
//	@Summary		Confirm return
//	@Description	Closes an assignment. Units are restocked unless the condition is "damaged".
//	@Tags			resources
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ConfirmReturnRequest	true	"Return reconciliation"
//	@Success		200		{object}	AssignmentEnvelope
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/resources/return/confirm [post]
func (h *PostConfirmReturnHandler) Execute(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	req, ok := pkgvalidator.ValidateRequest[ConfirmReturnRequest](w, r)
	if !ok {
		return
	}

	asg, err := h.svc.Allocation.ConfirmReturn(r.Context(), actor, appsvcs.ConfirmReturnInput{
		AssignmentID: req.AssignmentID,
		Condition:    req.Condition,
		Notes:        req.Notes,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, AssignmentEnvelope{Message: "Return confirmed", Data: toAssignmentResponse(asg)})
}
