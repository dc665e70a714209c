package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/volunteerhub/pkg/errhttp"
	"github.com/ghuser/volunteerhub/pkg/httpx"
	appsvcs "github.com/ghuser/volunteerhub/services/resource/application/services"
	"github.com/ghuser/volunteerhub/services/resource/domain/models"
	"github.com/ghuser/volunteerhub/services/resource/domain/repositories"
)

// CustodyEntryResponse is one entry of a resource's custody trail.
type CustodyEntryResponse struct {
	ID          uuid.UUID       `json:"id"`
	ActorUserID uuid.UUID       `json:"actor_user_id"`
	Action      string          `json:"action"      example:"Assigned to Volunteer"`
	TargetType  string          `json:"target_type" example:"resource"`
	TargetID    uuid.UUID       `json:"target_id"`
	Sequence    int64           `json:"sequence"    example:"3"`
	Metadata    json.RawMessage `json:"metadata"    swaggertype:"object"`
	CreatedAt   time.Time       `json:"created_at"`
} // @name CustodyEntryResponse

// HistoryResponse wraps a custody trail.
type HistoryResponse struct {
	Data []CustodyEntryResponse `json:"data"`
} // @name HistoryResponse

// GetHistoryHandler handles GET /resources/{id}/history requests.
type GetHistoryHandler struct {
	svc *appsvcs.Services
}

// NewGetHistoryHandler returns a GetHistoryHandler backed by the given services.
func NewGetHistoryHandler(svc *appsvcs.Services) *GetHistoryHandler {
	return &GetHistoryHandler{svc: svc}
}

// Execute returns the custody trail of a resource, newest first.
//
//	@Summary		Custody history
//	@Description	Returns the custody trail of a resource. Newest first unless order=asc.
//	@Tags			resources
//	@Produce		json
//	@Param			id		path		string	true	"Resource ID"
//	@Param			order	query		string	false	"asc for chronological order"	Enums(asc, desc)
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Entries to skip"
//	@Success		200		{object}	HistoryResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/resources/{id}/history [get]
func (h *GetHistoryHandler) Execute(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	page, ok := pageOpts(w, r)
	if !ok {
		return
	}

	opts := repositories.HistoryOpts{QueryOpts: page}
	switch r.URL.Query().Get("order") {
	case "", "desc":
	case "asc":
		opts.Ascending = true
	default:
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "order must be asc or desc"})
		return
	}

	entries, err := h.svc.Allocation.History(r.Context(), actor, id, opts)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	out := make([]CustodyEntryResponse, 0, len(entries))
	for _, e := range entries {
		meta, err := models.EncodeCustodyMetadata(e.Event, e.CreatedAt)
		if err != nil {
			errhttp.WriteError(w, err)
			return
		}
		out = append(out, CustodyEntryResponse{
			ID:          e.ID,
			ActorUserID: e.ActorUserID,
			Action:      e.Action(),
			TargetType:  models.EntityTypeResource,
			TargetID:    e.ResourceID,
			Sequence:    e.Sequence,
			Metadata:    meta,
			CreatedAt:   e.CreatedAt,
		})
	}
	httpx.JSON(w, http.StatusOK, HistoryResponse{Data: out})
}
