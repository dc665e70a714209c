package models

import (
	"strings"
	"testing"
)

func TestNewResourceName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"single character", "a", false},
		{"normal name", "First Aid Kit", false},
		{"255 characters", strings.Repeat("x", 255), false},
		{"empty", "", true},
		{"256 characters", strings.Repeat("x", 256), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewResourceName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewResourceName(%d chars) error = %v, wantErr = %v", len(tt.input), err, tt.wantErr)
			}
			if !tt.wantErr && n.String() != tt.input {
				t.Fatalf("expected %q, got %q", tt.input, n.String())
			}
		})
	}
}
