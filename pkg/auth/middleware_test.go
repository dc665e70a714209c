package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/volunteerhub/pkg/config"
	"github.com/ghuser/volunteerhub/pkg/logger"
)

// newTestStore returns the cookie store (no Redis required) for unit tests.
// In production the RedisStore is used; the sessions.Store interface is identical.
func newTestStore() sessions.Store {
	return NewCookieStore(
		[]byte("test-auth-key-must-be-32-bytes!!"),
		[]byte("test-enc-key-must-be-32-bytes!!!"),
		false,
	)
}

// newTestLogger creates a logger that discards output.
func newTestLogger() logger.Logger {
	return logger.New(&config.Config{LogLevel: "error"})
}

// requestWithValues builds an *http.Request carrying a session cookie with
// the given raw session values.
func requestWithValues(t *testing.T, store sessions.Store, values map[string]string) *http.Request {
	t.Helper()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/resources/distribute", nil)

	session, err := store.Get(r, SessionName)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	for k, v := range values {
		session.Values[k] = v
	}
	if err := session.Save(r, w); err != nil {
		t.Fatalf("save session: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/resources/distribute", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestRequireAuth_ValidSession(t *testing.T) {
	store := newTestStore()
	want := Principal{UserID: uuid.New(), Role: "volunteer", OrgID: uuid.New(), VolunteerID: uuid.New()}

	w1 := httptest.NewRecorder()
	r1 := httptest.NewRequest(http.MethodGet, "/", nil)
	if err := StartSession(store, w1, r1, want); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	r := httptest.NewRequest(http.MethodGet, "/api/resources", nil)
	for _, c := range w1.Result().Cookies() {
		r.AddCookie(c)
	}

	var got Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = PrincipalFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	RequireAuth(store, newTestLogger())(next).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestRequireAuth_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
	}{
		{"no session values", nil},
		{"missing user", map[string]string{sessionRoleKey: "admin"}},
		{"unknown role", map[string]string{sessionUserIDKey: uuid.NewString(), sessionRoleKey: "root"}},
		{"invalid user id", map[string]string{sessionUserIDKey: "not-a-uuid", sessionRoleKey: "admin"}},
		{"invalid org id", map[string]string{sessionUserIDKey: uuid.NewString(), sessionRoleKey: "coordinator", sessionOrgIDKey: "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore()
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("next handler should not be called")
			})

			w := httptest.NewRecorder()
			RequireAuth(store, newTestLogger())(next).ServeHTTP(w, requestWithValues(t, store, tt.values))

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestRequireAuth_NoCookie(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be called")
	})

	w := httptest.NewRecorder()
	RequireAuth(newTestStore(), newTestLogger())(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/resources", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
