package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the resource domain. Use errors.Is() to check these.
var (
	// ErrResourceNotFound indicates the requested resource does not exist.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrAssignmentNotFound indicates the requested assignment does not exist.
	ErrAssignmentNotFound = errors.New("assignment not found")

	// ErrResourceAlreadyExists indicates a resource with the same serial number exists.
	ErrResourceAlreadyExists = errors.New("resource already exists")

	// ErrInvalidResource indicates the resource violates domain constraints.
	ErrInvalidResource = errors.New("invalid resource")

	// ErrUnauthorized indicates the actor may not perform the operation on this resource or assignment.
	ErrUnauthorized = errors.New("not authorized for this resource")

	// ErrResourceUnavailable indicates the resource cannot be issued in its current state.
	ErrResourceUnavailable = errors.New("resource unavailable")

	// ErrInsufficientStock indicates fewer units are available than requested.
	// It is a ResourceUnavailable error.
	ErrInsufficientStock = fmt.Errorf("%w: insufficient stock", ErrResourceUnavailable)

	// ErrResourceNotReturnable indicates a return was requested for a consumable resource.
	ErrResourceNotReturnable = errors.New("resource is not returnable")

	// ErrInvalidStateTransition indicates the assignment state machine forbids the transition.
	ErrInvalidStateTransition = errors.New("invalid assignment state transition")

	// ErrIdempotencyConflict indicates an idempotency key was reused for a different request.
	ErrIdempotencyConflict = errors.New("idempotency key reused with different parameters")

	// ErrLedgerCorruption indicates a ledger invariant would be violated,
	// e.g. available stock exceeding the total. Always alert on it.
	ErrLedgerCorruption = errors.New("resource ledger corruption")

	// ErrCustodyChainBroken indicates the audit trail cannot reproduce the ledger.
	ErrCustodyChainBroken = errors.New("custody chain broken")
)
