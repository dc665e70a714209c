package auth

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/volunteerhub/pkg/httpx"
	"github.com/ghuser/volunteerhub/pkg/logger"
)

// SessionName is the cookie name of the platform session.
const SessionName = "volunteerhub_session"

// Session value keys. The identity provider that signs users in writes them;
// this service only reads them.
const (
	sessionUserIDKey      = "user_id"
	sessionRoleKey        = "role"
	sessionOrgIDKey       = "org_id"
	sessionVolunteerIDKey = "volunteer_id"
)

// RequireAuth is a chi middleware that enforces authentication via session cookies.
// It reads the session, builds the Principal and injects it into the request context.
// Returns 401 Unauthorized if the session is missing, invalid, or lacks user_id and role.
//
// After this middleware, handlers can safely call auth.PrincipalFromCtx(r.Context()).
func RequireAuth(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, SessionName)
			if err != nil {
				log.WarnContext(r.Context(), "invalid session cookie", "error", err)
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}

			p, err := principalFromSession(session)
			if err != nil {
				log.WarnContext(r.Context(), "invalid session data", "error", err)
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}

			ctx := WithPrincipal(r.Context(), p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StartSession writes p into the session and saves it.
func StartSession(store sessions.Store, w http.ResponseWriter, r *http.Request, p Principal) error {
	session, err := store.Get(r, SessionName)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	session.Values[sessionUserIDKey] = p.UserID.String()
	session.Values[sessionRoleKey] = p.Role
	if p.OrgID != uuid.Nil {
		session.Values[sessionOrgIDKey] = p.OrgID.String()
	}
	if p.VolunteerID != uuid.Nil {
		session.Values[sessionVolunteerIDKey] = p.VolunteerID.String()
	}
	return session.Save(r, w)
}

func principalFromSession(s *sessions.Session) (Principal, error) {
	var p Principal

	userID, err := sessionUUID(s, sessionUserIDKey, true)
	if err != nil {
		return p, err
	}
	role, _ := s.Values[sessionRoleKey].(string)
	switch role {
	case "admin", "coordinator", "volunteer":
	default:
		return p, fmt.Errorf("session has unknown role %q", role)
	}
	orgID, err := sessionUUID(s, sessionOrgIDKey, false)
	if err != nil {
		return p, err
	}
	volunteerID, err := sessionUUID(s, sessionVolunteerIDKey, false)
	if err != nil {
		return p, err
	}

	return Principal{UserID: userID, Role: role, OrgID: orgID, VolunteerID: volunteerID}, nil
}

func sessionUUID(s *sessions.Session, key string, required bool) (uuid.UUID, error) {
	raw, _ := s.Values[key].(string)
	if raw == "" {
		if required {
			return uuid.Nil, fmt.Errorf("session missing %s", key)
		}
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s in session: %w", key, err)
	}
	return id, nil
}
