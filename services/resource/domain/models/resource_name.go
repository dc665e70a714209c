package models

import "fmt"

// ResourceName is a value object representing a valid resource name.
// Encapsulates validation rules: 1 <= len(name) <= 255.
type ResourceName string

const (
	minResourceNameLength = 1
	maxResourceNameLength = 255
)

// NewResourceName constructs a valid ResourceName or returns an error if constraints are violated.
func NewResourceName(s string) (ResourceName, error) {
	if len(s) < minResourceNameLength {
		return "", fmt.Errorf("resource name must be at least %d character", minResourceNameLength)
	}
	if len(s) > maxResourceNameLength {
		return "", fmt.Errorf("resource name must not exceed %d characters", maxResourceNameLength)
	}
	return ResourceName(s), nil
}

// String returns the underlying string value.
func (n ResourceName) String() string {
	return string(n)
}
