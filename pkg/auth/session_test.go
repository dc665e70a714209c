package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func TestStringValues(t *testing.T) {
	tests := []struct {
		name    string
		in      map[any]any
		wantErr bool
	}{
		{"strings", map[any]any{"user_id": "u", "role": "admin"}, false},
		{"empty", map[any]any{}, false},
		{"non-string value", map[any]any{"role": 1}, true},
		{"non-string key", map[any]any{1: "x"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := stringValues(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("stringValues() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(out) != len(tt.in) {
				t.Errorf("len = %d, want %d", len(out), len(tt.in))
			}
		})
	}
}

func TestCookieOptions(t *testing.T) {
	opts := cookieOptions(true)
	if !opts.Secure || !opts.HttpOnly {
		t.Errorf("options = %+v, want Secure and HttpOnly", opts)
	}
	if opts.MaxAge != 7*24*60*60 {
		t.Errorf("MaxAge = %d", opts.MaxAge)
	}
}

// TestRedisStore_RoundTrip needs a Redis server at REDIS_URL.
func TestRedisStore_RoundTrip(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("parse REDIS_URL: %v", err)
	}
	client := redis.NewClient(opts)
	defer client.Close() //nolint:errcheck

	store := NewSessionStore(client,
		[]byte("test-auth-key-must-be-32-bytes!!"),
		[]byte("test-enc-key-must-be-32-bytes!!!"),
		false)

	want := Principal{UserID: uuid.New(), Role: "coordinator", OrgID: uuid.New()}
	w := httptest.NewRecorder()
	if err := StartSession(store, w, httptest.NewRequest(http.MethodPost, "/login", nil), want); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/api/resources", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	session, err := store.Get(r, SessionName)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if session.IsNew {
		t.Fatal("session was not loaded from redis")
	}
	got, err := principalFromSession(session)
	if err != nil {
		t.Fatalf("principalFromSession: %v", err)
	}
	if got != want {
		t.Errorf("principal = %+v, want %+v", got, want)
	}

	client.Del(context.Background(), sessionKeyPrefix+session.ID)
}
