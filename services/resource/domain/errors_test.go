package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestInsufficientStockIsUnavailable(t *testing.T) {
	wrapped := fmt.Errorf("distribute: %w", ErrInsufficientStock)
	if !errors.Is(wrapped, ErrInsufficientStock) {
		t.Fatal("errors.Is must match wrapped ErrInsufficientStock")
	}
	if !errors.Is(wrapped, ErrResourceUnavailable) {
		t.Fatal("ErrInsufficientStock must also match ErrResourceUnavailable")
	}
	if errors.Is(ErrResourceUnavailable, ErrInsufficientStock) {
		t.Fatal("ErrResourceUnavailable must not match ErrInsufficientStock")
	}
}

func TestSentinelErrors_Distinct(t *testing.T) {
	all := []error{
		ErrResourceNotFound, ErrAssignmentNotFound, ErrResourceAlreadyExists,
		ErrInvalidResource, ErrUnauthorized, ErrResourceUnavailable,
		ErrResourceNotReturnable, ErrInvalidStateTransition, ErrIdempotencyConflict,
		ErrLedgerCorruption, ErrCustodyChainBroken,
	}
	for i, a := range all {
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Errorf("%q must not match %q", a, b)
			}
		}
	}
}
