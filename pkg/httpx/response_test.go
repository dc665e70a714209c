package httpx_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ghuser/volunteerhub/pkg/httpx"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	httpx.JSON(w, http.StatusCreated, map[string]any{"message": "Resource created", "total": 3})

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body struct {
		Message string `json:"message"`
		Total   int    `json:"total"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "Resource created" || body.Total != 3 {
		t.Errorf("body = %+v", body)
	}
}

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	httpx.JSONError(w, http.StatusNotFound, "resource not found")

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.Code != http.StatusNotFound || body["error"] != "resource not found" {
		t.Errorf("got %d %v", w.Code, body)
	}
}

func TestSafeError(t *testing.T) {
	err := errors.New(`pq: relation "resources" does not exist`)
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusBadRequest, err.Error()},
		{http.StatusConflict, err.Error()},
		{http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, tt := range tests {
		if got := httpx.SafeError(err, tt.status); got != tt.want {
			t.Errorf("SafeError(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}
