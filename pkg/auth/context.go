package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const principalKey contextKey = "principal"

// ErrPrincipalNotFound is returned when no Principal exists in the request context.
// Handlers should return 401 when this error occurs.
var ErrPrincipalNotFound = errors.New("principal not found in context")

// Principal is the authenticated caller as carried by the session.
type Principal struct {
	UserID      uuid.UUID
	Role        string    // admin, coordinator or volunteer
	OrgID       uuid.UUID // uuid.Nil for platform admins
	VolunteerID uuid.UUID // uuid.Nil when the user has no volunteer profile
}

// PrincipalFromCtx extracts the authenticated principal from the request context.
// Returns ErrPrincipalNotFound if none is set (unauthenticated request).
func PrincipalFromCtx(ctx context.Context) (Principal, error) {
	p, ok := ctx.Value(principalKey).(Principal)
	if !ok || p.UserID == uuid.Nil {
		return Principal{}, ErrPrincipalNotFound
	}
	return p, nil
}

// WithPrincipal returns a new context with p attached.
// Used by authentication middleware after validating the session.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}
