package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/volunteerhub/pkg/errhttp"
	"github.com/ghuser/volunteerhub/pkg/httpx"
	pkgvalidator "github.com/ghuser/volunteerhub/pkg/validator"
	appsvcs "github.com/ghuser/volunteerhub/services/resource/application/services"
	"github.com/ghuser/volunteerhub/services/resource/domain/models"
)

// DistributeRequest is the request body for POST /resources/distribute.
// Either volunteer_id, or assignment_type "event" with related_id, names the borrower.
type DistributeRequest struct {
	ResourceID       uuid.UUID  `json:"resource_id"                validate:"required"                     example:"550e8400-e29b-41d4-a716-446655440000"`
	VolunteerID      uuid.UUID  `json:"volunteer_id,omitempty"                                              example:"7c9e6679-7425-40de-944b-e07fc1f90ae7"`
	AssignmentType   string     `json:"assignment_type,omitempty"  validate:"omitempty,oneof=volunteer event" example:"volunteer"`
	RelatedID        uuid.UUID  `json:"related_id,omitempty"`
	Quantity         int        `json:"quantity,omitempty"         validate:"gte=0,lte=100000"              example:"1"`
	Notes            string     `json:"notes,omitempty"            validate:"max=2000"`
	ExpectedReturnAt *time.Time `json:"expected_return_at,omitempty" example:"2024-01-20T10:30:00Z"`
	IdempotencyKey   string     `json:"idempotency_key,omitempty"  validate:"max=255"                       example:"a3f1c2"`
} // @name DistributeRequest

// PostDistributeHandler handles POST /resources/distribute requests.
type PostDistributeHandler struct {
	svc *appsvcs.Services
}

// NewPostDistributeHandler returns a PostDistributeHandler backed by the given services.
func NewPostDistributeHandler(svc *appsvcs.Services) *PostDistributeHandler {
	return &PostDistributeHandler{svc: svc}
}

// Execute issues units of a resource to a volunteer or event.
// The Idempotency-Key header is used when the body carries no key.
//
//	@Summary		Distribute resource
//	@Description	Issues units of a resource to a volunteer or event and records the custody entry
//	@Tags			resources
//	@Accept			json
//	@Produce		json
//	@Param			request			body		DistributeRequest	true	"Distribution request"
//	@Param			Idempotency-Key	header		string				false	"Retry key"
//	@Success		200				{object}	AssignmentEnvelope
//	@Failure		400				{object}	ErrorResponse
//	@Failure		401				{object}	ErrorResponse
//	@Failure		403				{object}	ErrorResponse
//	@Failure		404				{object}	ErrorResponse
//	@Failure		409				{object}	ErrorResponse
//	@Failure		422				{object}	ErrorResponse
//	@Router			/resources/distribute [post]
func (h *PostDistributeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	req, ok := pkgvalidator.ValidateRequest[DistributeRequest](w, r)
	if !ok {
		return
	}

	in := appsvcs.DistributeInput{
		ResourceID:       req.ResourceID,
		AssigneeType:     models.AssignmentType(req.AssignmentType),
		AssigneeID:       req.VolunteerID,
		Quantity:         req.Quantity,
		Notes:            req.Notes,
		ExpectedReturnAt: req.ExpectedReturnAt,
		IdempotencyKey:   req.IdempotencyKey,
	}
	if req.RelatedID != uuid.Nil {
		in.AssigneeID = req.RelatedID
	}
	if in.IdempotencyKey == "" {
		in.IdempotencyKey = r.Header.Get("Idempotency-Key")
	}

	asg, err := h.svc.Allocation.Distribute(r.Context(), actor, in)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, AssignmentEnvelope{Message: "Resource distributed", Data: toAssignmentResponse(asg)})
}
