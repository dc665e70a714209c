package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ghuser/volunteerhub/pkg/errhttp"
	"github.com/ghuser/volunteerhub/pkg/httpx"
	pkgvalidator "github.com/ghuser/volunteerhub/pkg/validator"
	appsvcs "github.com/ghuser/volunteerhub/services/resource/application/services"
	"github.com/ghuser/volunteerhub/services/resource/domain/models"
	"github.com/ghuser/volunteerhub/services/resource/domain/repositories"
)

// CreateResourceRequest is the request body for POST /resources.
type CreateResourceRequest struct {
	OrganizationID    uuid.UUID `json:"organization_id"              validate:"required"                                               example:"7c9e6679-7425-40de-944b-e07fc1f90ae7"`
	Name              string    `json:"name"                         validate:"required,notblank,max=255"                              example:"Handheld radio"`
	Category          string    `json:"category"                     validate:"required,notblank,max=100"                              example:"comms"`
	Description       string    `json:"description,omitempty"        validate:"max=2000"`
	QuantityTotal     int       `json:"quantity_total"               validate:"gte=0,lte=1000000"                                      example:"10"`
	QuantityAvailable *int      `json:"quantity_available,omitempty" validate:"omitempty,gte=0"`
	SerialNumber      string    `json:"serial_number,omitempty"      validate:"max=100"                                                example:"RAD-0042"`
	IsReturnable      bool      `json:"is_returnable"                                                                                  example:"true"`
	Status            string    `json:"status,omitempty"             validate:"omitempty,oneof=available in_use reserved damaged maintenance" example:"available"`
	Location          string    `json:"location,omitempty"           validate:"max=255"                                                example:"Depot A"`
} // @name CreateResourceRequest

// ResourceEnvelope wraps a resource with a status message.
type ResourceEnvelope struct {
	Message string           `json:"message,omitempty" example:"Resource created"`
	Data    ResourceResponse `json:"data"`
} // @name ResourceEnvelope

// ResourceListResponse is a page of resources.
type ResourceListResponse struct {
	Data  []ResourceResponse `json:"data"`
	Total int                `json:"total" example:"42"`
} // @name ResourceListResponse

// AssignmentListResponse lists the assignments of a resource.
type AssignmentListResponse struct {
	Data []AssignmentResponse `json:"data"`
} // @name AssignmentListResponse

// ResourceHandlers serves the resource catalogue.
type ResourceHandlers struct {
	svc *appsvcs.Services
}

// NewResourceHandlers returns ResourceHandlers backed by the given services.
func NewResourceHandlers(svc *appsvcs.Services) *ResourceHandlers {
	return &ResourceHandlers{svc: svc}
}

// Create registers a resource.
//
//	@Summary		Create resource
//	@Description	Registers a stock item or pool for an organization. Serialized resources hold one unit.
//	@Tags			resources
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateResourceRequest	true	"Resource"
//	@Success		201		{object}	ResourceEnvelope
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/resources [post]
func (h *ResourceHandlers) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	req, ok := pkgvalidator.ValidateRequest[CreateResourceRequest](w, r)
	if !ok {
		return
	}

	res, err := h.svc.Resource.Create(r.Context(), actor, appsvcs.CreateResourceInput{
		OrganizationID:    req.OrganizationID,
		Name:              req.Name,
		Category:          req.Category,
		Description:       req.Description,
		QuantityTotal:     req.QuantityTotal,
		QuantityAvailable: req.QuantityAvailable,
		SerialNumber:      req.SerialNumber,
		IsReturnable:      req.IsReturnable,
		Status:            models.ResourceStatus(req.Status),
		Location:          req.Location,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, ResourceEnvelope{Message: "Resource created", Data: toResourceResponse(res)})
}

// List returns a page of resources.
//
//	@Summary		List resources
//	@Description	Lists resources. Non-admins only see their own organization.
//	@Tags			resources
//	@Produce		json
//	@Param			organization_id	query		string	false	"Organization filter (admins)"
//	@Param			status			query		string	false	"Status filter"
//	@Param			category		query		string	false	"Category filter"
//	@Param			limit			query		int		false	"Page size (max 100)"
//	@Param			offset			query		int		false	"Rows to skip"
//	@Success		200				{object}	ResourceListResponse
//	@Failure		400				{object}	ErrorResponse
//	@Failure		401				{object}	ErrorResponse
//	@Failure		403				{object}	ErrorResponse
//	@Router			/resources [get]
func (h *ResourceHandlers) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	page, ok := pageOpts(w, r)
	if !ok {
		return
	}
	if page.Limit == 0 {
		page.Limit = 20
	}

	q := r.URL.Query()
	filter := repositories.ResourceFilter{
		Status:    models.ResourceStatus(q.Get("status")),
		Category:  q.Get("category"),
		QueryOpts: page,
	}
	if filter.Status != "" && !filter.Status.Valid() {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "unknown status"})
		return
	}
	if raw := q.Get("organization_id"); raw != "" {
		org, err := uuid.Parse(raw)
		if err != nil {
			httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "organization_id must be a valid UUID"})
			return
		}
		filter.OrganizationID = org
	}

	items, total, err := h.svc.Resource.List(r.Context(), actor, filter)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	out := make([]ResourceResponse, 0, len(items))
	for _, res := range items {
		out = append(out, toResourceResponse(res))
	}
	httpx.JSON(w, http.StatusOK, ResourceListResponse{Data: out, Total: total})
}

// Get returns one resource.
//
//	@Summary		Get resource
//	@Tags			resources
//	@Produce		json
//	@Param			id	path		string	true	"Resource ID"
//	@Success		200	{object}	ResourceEnvelope
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/resources/{id} [get]
func (h *ResourceHandlers) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	res, err := h.svc.Resource.Get(r.Context(), actor, id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ResourceEnvelope{Data: toResourceResponse(res)})
}

// Assignments lists the assignments of a resource.
//
//	@Summary		Resource assignments
//	@Description	Lists every assignment of a resource, newest first
//	@Tags			resources
//	@Produce		json
//	@Param			id	path		string	true	"Resource ID"
//	@Success		200	{object}	AssignmentListResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/resources/{id}/assignments [get]
func (h *ResourceHandlers) Assignments(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	list, err := h.svc.Resource.Assignments(r.Context(), actor, id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	out := make([]AssignmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAssignmentResponse(a))
	}
	httpx.JSON(w, http.StatusOK, AssignmentListResponse{Data: out})
}
