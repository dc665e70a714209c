package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/volunteerhub/services/resource/domain/models"
)

// QueryOpts contains pagination parameters for list queries.
type QueryOpts struct {
	Limit  int // Maximum number of records to return
	Offset int // Number of records to skip
}

// ResourceFilter narrows resource listings. Zero values match everything.
type ResourceFilter struct {
	OrganizationID uuid.UUID
	Status         models.ResourceStatus
	Category       string
	QueryOpts
}

// ResourceLedger is the persistence interface for resource quantity and status truth.
// Mutating methods are only called inside Store.WithinTx, after Lock.
type ResourceLedger interface {
	Create(ctx context.Context, r *models.Resource) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Resource, error)

	// List returns a page of resources and the total count ignoring pagination.
	List(ctx context.Context, filter ResourceFilter) ([]*models.Resource, int, error)

	// Lock takes the row-level write lock on the resource for the rest of the
	// transaction and reserves the next custody sequence number, returned in
	// the resource's CustodySeq. Returns ErrResourceNotFound if missing.
	Lock(ctx context.Context, id uuid.UUID) (*models.Resource, error)

	// DecrementAvailable atomically removes n units. Returns ErrInsufficientStock
	// when fewer than n are available.
	DecrementAvailable(ctx context.Context, id uuid.UUID, n int) error

	// IncrementAvailable atomically restores n units. Returns ErrLedgerCorruption
	// when the result would exceed the total.
	IncrementAvailable(ctx context.Context, id uuid.UUID, n int) error

	SetOwner(ctx context.Context, id, organizationID uuid.UUID) error
	SetStatus(ctx context.Context, id uuid.UUID, status models.ResourceStatus) error
}
