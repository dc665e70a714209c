package validator_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgvalidator "github.com/ghuser/volunteerhub/pkg/validator"
)

type confirmReq struct {
	AssignmentID string   `json:"assignment_id" validate:"required,uuid"`
	Condition    string   `json:"condition"     validate:"required,notblank,max=10"`
	Kind         string   `json:"kind"          validate:"omitempty,oneof=volunteer event"`
	Quantity     int      `json:"quantity"      validate:"gte=0"`
	ResourceIDs  []string `json:"resource_ids"  validate:"omitempty,min=1,max=2"`
}

const validID = "550e8400-e29b-41d4-a716-446655440000"

func TestValidate(t *testing.T) {
	if err := pkgvalidator.Validate(&confirmReq{AssignmentID: validID, Condition: "good"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := pkgvalidator.Validate(&confirmReq{}); err == nil {
		t.Fatal("expected validation error for empty struct")
	}
}

func TestFormatValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		in    confirmReq
		field string
		want  string
	}{
		{"required", confirmReq{Condition: "good"}, "assignment_id", "This field is required"},
		{"uuid", confirmReq{AssignmentID: "not-a-uuid", Condition: "good"}, "assignment_id", "Must be a valid UUID"},
		{"blank", confirmReq{AssignmentID: validID, Condition: "   "}, "condition", "Must not be blank"},
		{"max length", confirmReq{AssignmentID: validID, Condition: "slightly scratched"}, "condition", "Maximum length is 10"},
		{"oneof", confirmReq{AssignmentID: validID, Condition: "good", Kind: "team"}, "kind", "Must be one of: volunteer event"},
		{"gte", confirmReq{AssignmentID: validID, Condition: "good", Quantity: -1}, "quantity", "Must be greater than or equal to 0"},
		{"too many items", confirmReq{AssignmentID: validID, Condition: "good", ResourceIDs: []string{"a", "b", "c"}}, "resource_ids", "Must contain at most 2 items"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := pkgvalidator.FormatValidationErrors(pkgvalidator.Validate(&tt.in))
			if m[tt.field] != tt.want {
				t.Errorf("%s: got %q, want %q (all: %v)", tt.field, m[tt.field], tt.want, m)
			}
		})
	}

	t.Run("non-validation error", func(t *testing.T) {
		if m := pkgvalidator.FormatValidationErrors(http.ErrNoCookie); len(m) != 0 {
			t.Errorf("expected empty map, got %v", m)
		}
	})
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		ok       bool
		code     int
		contains string
	}{
		{"valid", `{"assignment_id":"` + validID + `","condition":"good"}`, true, http.StatusOK, ""},
		{"malformed JSON", `{bad json`, false, http.StatusBadRequest, "Invalid JSON"},
		{"missing field", `{"condition":"good"}`, false, http.StatusUnprocessableEntity, "Validation failed"},
		{"invalid UUID", `{"assignment_id":"nope","condition":"good"}`, false, http.StatusUnprocessableEntity, "UUID"},
		{"oversized body", `{"assignment_id":"` + validID + `","condition":"` + strings.Repeat("x", 200) + `"}`, false, http.StatusRequestEntityTooLarge, "too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			r.Header.Set("Content-Type", "application/json")
			r.Body = http.MaxBytesReader(w, r.Body, 128)

			req, ok := pkgvalidator.ValidateRequest[confirmReq](w, r)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v (body %s)", ok, tt.ok, w.Body.String())
			}
			if ok {
				if req.Condition != "good" {
					t.Errorf("Condition = %q", req.Condition)
				}
				return
			}
			if w.Code != tt.code {
				t.Errorf("status = %d, want %d", w.Code, tt.code)
			}
			if !strings.Contains(w.Body.String(), tt.contains) {
				t.Errorf("body %s does not contain %q", w.Body.String(), tt.contains)
			}
		})
	}
}
