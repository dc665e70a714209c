// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/volunteerhub/pkg/httpx"
	resourcedomain "github.com/ghuser/volunteerhub/services/resource/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Unrecognized errors are a 500 whose message is not echoed to the client.
func WriteError(w http.ResponseWriter, err error) {
	status := mapErrorToStatus(err)
	httpx.JSONError(w, status, httpx.SafeError(err, status))
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, resourcedomain.ErrResourceNotFound),
		errors.Is(err, resourcedomain.ErrAssignmentNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, resourcedomain.ErrUnauthorized):
		return http.StatusForbidden // 403
	case errors.Is(err, resourcedomain.ErrResourceUnavailable),
		errors.Is(err, resourcedomain.ErrResourceNotReturnable),
		errors.Is(err, resourcedomain.ErrInvalidStateTransition):
		return http.StatusBadRequest // 400
	case errors.Is(err, resourcedomain.ErrInvalidResource):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, resourcedomain.ErrResourceAlreadyExists),
		errors.Is(err, resourcedomain.ErrIdempotencyConflict),
		errors.Is(err, resourcedomain.ErrCustodyChainBroken):
		return http.StatusConflict // 409
	case errors.Is(err, resourcedomain.ErrLedgerCorruption):
		return http.StatusInternalServerError // 500, alerted by the service
	default:
		return http.StatusInternalServerError // 500
	}
}
