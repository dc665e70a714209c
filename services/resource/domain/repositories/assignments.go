package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/volunteerhub/services/resource/domain/models"
)

// AssignmentRepository is the persistence interface for the assignment state machine.
// Assignments are never deleted.
type AssignmentRepository interface {
	Create(ctx context.Context, a *models.Assignment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error)

	// FindByIdempotencyKey returns the assignment created for resourceID with key,
	// or ErrAssignmentNotFound.
	FindByIdempotencyKey(ctx context.Context, resourceID uuid.UUID, key string) (*models.Assignment, error)

	// ListByResource returns every assignment of a resource, newest first.
	ListByResource(ctx context.Context, resourceID uuid.UUID) ([]*models.Assignment, error)

	// Transition persists a's status, returned_at, condition and notes, but only
	// if the stored status is one of from. Returns ErrInvalidStateTransition otherwise.
	Transition(ctx context.Context, a *models.Assignment, from ...models.AssignmentStatus) error
}
