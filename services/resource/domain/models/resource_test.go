package models

import (
	"testing"

	"github.com/google/uuid"
)

func intPtr(n int) *int { return &n }

func TestNewResource(t *testing.T) {
	org := uuid.New()

	t.Run("bulk defaults available to total", func(t *testing.T) {
		r := NewResource(NewResourceParams{OrganizationID: org, Name: "Water", QuantityTotal: 10})
		if r.ID == uuid.Nil {
			t.Fatal("expected generated ID")
		}
		if r.QuantityAvailable != 10 || r.Status != StatusAvailable {
			t.Fatalf("got available=%d status=%s", r.QuantityAvailable, r.Status)
		}
		if r.CreatedAt.IsZero() || !r.CreatedAt.Equal(r.UpdatedAt) {
			t.Fatal("expected matching timestamps")
		}
	})

	t.Run("serialized defaults to one unit", func(t *testing.T) {
		r := NewResource(NewResourceParams{OrganizationID: org, Name: "Radio", SerialNumber: "R-1"})
		if !r.IsSerialized() || r.QuantityTotal != 1 || r.QuantityAvailable != 1 {
			t.Fatalf("got total=%d available=%d", r.QuantityTotal, r.QuantityAvailable)
		}
	})

	t.Run("empty pool is in use", func(t *testing.T) {
		r := NewResource(NewResourceParams{OrganizationID: org, Name: "Tents", QuantityTotal: 3, QuantityAvailable: intPtr(0)})
		if r.Status != StatusInUse {
			t.Fatalf("expected in_use, got %s", r.Status)
		}
	})

	t.Run("explicit sticky status is kept", func(t *testing.T) {
		r := NewResource(NewResourceParams{OrganizationID: org, Name: "Generator", QuantityTotal: 1, Status: StatusMaintenance})
		if r.Status != StatusMaintenance {
			t.Fatalf("expected maintenance, got %s", r.Status)
		}
	})
}

func TestResource_DerivedStatus(t *testing.T) {
	tests := []struct {
		name      string
		serial    string
		status    ResourceStatus
		available int
		want      ResourceStatus
	}{
		{"available with stock", "", StatusAvailable, 2, StatusAvailable},
		{"available drained", "", StatusAvailable, 0, StatusInUse},
		{"in use restocked", "", StatusInUse, 1, StatusAvailable},
		{"reserved with stock", "", StatusReserved, 1, StatusReserved},
		{"reserved drained", "", StatusReserved, 0, StatusInUse},
		{"damaged pool with stock", "", StatusDamaged, 3, StatusAvailable},
		{"damaged pool drained", "", StatusDamaged, 0, StatusInUse},
		{"maintenance pool with stock", "", StatusMaintenance, 1, StatusAvailable},
		{"damaged unit restocked", "R-1", StatusDamaged, 1, StatusDamaged},
		{"maintenance unit drained", "R-1", StatusMaintenance, 0, StatusMaintenance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Resource{SerialNumber: tt.serial, Status: tt.status, QuantityAvailable: tt.available, QuantityTotal: 5}
			if got := r.DerivedStatus(); got != tt.want {
				t.Fatalf("DerivedStatus() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestResourceStatus_Valid(t *testing.T) {
	for _, s := range []ResourceStatus{StatusAvailable, StatusInUse, StatusReserved, StatusDamaged, StatusMaintenance} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if ResourceStatus("lost").Valid() {
		t.Error("unknown status should be invalid")
	}
}
