package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ghuser/volunteerhub/services/resource/domain"
	"github.com/ghuser/volunteerhub/services/resource/domain/models"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   models.ResourceName
		wantErr bool
	}{
		{"valid name", "First Aid Kit", false},
		{"valid name with special chars", "Kit-#12_(blue)", false},
		{"leading whitespace", " Kit", true},
		{"trailing whitespace", "Kit ", true},
		{"only whitespace", "   ", true},
		{"tab character", "First\tAid", true},
		{"newline character", "First\nAid", true},
		{"DEL character", "Kit\x7F", true},
		{"consecutive spaces", "First  Aid", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateName(%q) error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateResourceForCreation(t *testing.T) {
	valid := func() *models.Resource {
		return models.NewResource(models.NewResourceParams{
			OrganizationID: uuid.New(),
			Name:           "Sandbags",
			QuantityTotal:  20,
		})
	}

	t.Run("nil resource returns error", func(t *testing.T) {
		if err := ValidateResourceForCreation(nil); err == nil {
			t.Fatal("expected error for nil resource")
		}
	})

	t.Run("valid resource returns nil", func(t *testing.T) {
		if err := ValidateResourceForCreation(valid()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	tests := []struct {
		name   string
		mutate func(r *models.Resource)
	}{
		{"zero organization", func(r *models.Resource) { r.OrganizationID = uuid.Nil }},
		{"zero id", func(r *models.Resource) { r.ID = uuid.Nil }},
		{"invalid name", func(r *models.Resource) { r.Name = " Sandbags" }},
		{"unknown status", func(r *models.Resource) { r.Status = "lost" }},
		{"negative total", func(r *models.Resource) { r.QuantityTotal = -1; r.QuantityAvailable = -1 }},
		{"available over total", func(r *models.Resource) { r.QuantityAvailable = 21 }},
		{"serialized pool", func(r *models.Resource) { r.SerialNumber = "SB-1" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(r)
			if err := ValidateResourceForCreation(r); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestCheckIssuable(t *testing.T) {
	tests := []struct {
		name     string
		resource models.Resource
		n        int
		want     error
	}{
		{"bulk with stock", models.Resource{Status: models.StatusAvailable, QuantityTotal: 5, QuantityAvailable: 5}, 3, nil},
		{"reserved with stock", models.Resource{Status: models.StatusReserved, QuantityTotal: 5, QuantityAvailable: 5}, 1, nil},
		{"bulk short", models.Resource{Status: models.StatusAvailable, QuantityTotal: 5, QuantityAvailable: 2}, 3, domain.ErrInsufficientStock},
		{"empty pool", models.Resource{Status: models.StatusInUse, QuantityTotal: 5}, 1, domain.ErrInsufficientStock},
		{"damaged pool with stock", models.Resource{Status: models.StatusDamaged, QuantityTotal: 5, QuantityAvailable: 4}, 1, nil},
		{"damaged pool short", models.Resource{Status: models.StatusDamaged, QuantityTotal: 5, QuantityAvailable: 1}, 2, domain.ErrInsufficientStock},
		{"damaged unit", models.Resource{SerialNumber: "R-1", Status: models.StatusDamaged, QuantityTotal: 1, QuantityAvailable: 1}, 1, domain.ErrResourceUnavailable},
		{"maintenance unit", models.Resource{SerialNumber: "R-1", Status: models.StatusMaintenance, QuantityTotal: 1, QuantityAvailable: 1}, 1, domain.ErrResourceUnavailable},
		{"serialized free", models.Resource{SerialNumber: "R-1", Status: models.StatusAvailable, QuantityTotal: 1, QuantityAvailable: 1}, 1, nil},
		{"serialized in use", models.Resource{SerialNumber: "R-1", Status: models.StatusInUse, QuantityTotal: 1}, 1, domain.ErrResourceUnavailable},
		{"serialized multiple", models.Resource{SerialNumber: "R-1", Status: models.StatusAvailable, QuantityTotal: 1, QuantityAvailable: 1}, 2, domain.ErrResourceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckIssuable(&tt.resource, tt.n)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("CheckIssuable() = %v, want %v", err, tt.want)
			}
		})
	}

	t.Run("serialized in use is not insufficient stock", func(t *testing.T) {
		r := models.Resource{SerialNumber: "R-1", Status: models.StatusInUse, QuantityTotal: 1}
		if err := CheckIssuable(&r, 1); errors.Is(err, domain.ErrInsufficientStock) {
			t.Fatalf("got %v", err)
		}
	})
}
