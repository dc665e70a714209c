package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ghuser/volunteerhub/pkg/database"
	"github.com/ghuser/volunteerhub/services/resource/domain"
	"github.com/ghuser/volunteerhub/services/resource/domain/models"
	"github.com/ghuser/volunteerhub/services/resource/domain/repositories"
)

const assignmentColumns = `id, resource_id, assignment_type, related_id, quantity, status,
	assigned_at, expected_return_at, returned_at, condition, notes, assigned_by, idempotency_key`

// AssignmentRepository implements repositories.AssignmentRepository.
type AssignmentRepository struct {
	conn
}

var _ repositories.AssignmentRepository = (*AssignmentRepository)(nil)

// Create inserts a new assignment. A reused idempotency key on the same
// resource returns ErrIdempotencyConflict.
func (r *AssignmentRepository) Create(ctx context.Context, a *models.Assignment) error {
	_, err := r.exec(ctx, `INSERT INTO resource_assignments (`+assignmentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.ResourceID, string(a.Type), a.RelatedID, a.Quantity, string(a.Status),
		a.AssignedAt.UTC(), nullTime(a.ExpectedReturnAt), nullTime(a.ReturnedAt),
		a.Condition, a.Notes, a.AssignedBy, nullString(a.IdempotencyKey),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.ErrIdempotencyConflict
		}
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

// GetByID returns the assignment or ErrAssignmentNotFound.
func (r *AssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	row := r.queryRow(ctx, `SELECT `+assignmentColumns+` FROM resource_assignments WHERE id = ?`, id)
	return r.one(row)
}

// FindByIdempotencyKey returns the assignment created for resourceID with key.
func (r *AssignmentRepository) FindByIdempotencyKey(ctx context.Context, resourceID uuid.UUID, key string) (*models.Assignment, error) {
	row := r.queryRow(ctx, `SELECT `+assignmentColumns+` FROM resource_assignments
		WHERE resource_id = ? AND idempotency_key = ?`, resourceID, key)
	return r.one(row)
}

// ListByResource returns the assignments of a resource, newest first.
func (r *AssignmentRepository) ListByResource(ctx context.Context, resourceID uuid.UUID) ([]*models.Assignment, error) {
	rows, err := r.query(ctx, `SELECT `+assignmentColumns+` FROM resource_assignments
		WHERE resource_id = ? ORDER BY assigned_at DESC, id`, resourceID)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	var out []*models.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignments: %w", err)
	}
	return out, nil
}

// Transition writes a's lifecycle fields if the stored status is one of from.
func (r *AssignmentRepository) Transition(ctx context.Context, a *models.Assignment, from ...models.AssignmentStatus) error {
	if len(from) == 0 {
		return domain.ErrInvalidStateTransition
	}
	args := []any{string(a.Status), nullTime(a.ReturnedAt), a.Condition, a.Notes, a.ID}
	marks := make([]string, len(from))
	for i, s := range from {
		marks[i] = "?"
		args = append(args, string(s))
	}

	res, err := r.exec(ctx, `UPDATE resource_assignments
		SET status = ?, returned_at = ?, condition = ?, notes = ?
		WHERE id = ? AND status IN (`+strings.Join(marks, ", ")+`)`, args...)
	if err != nil {
		return fmt.Errorf("transition assignment: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("transition assignment: %w", err)
	} else if affected == 0 {
		return fmt.Errorf("%w: assignment %s is not %v", domain.ErrInvalidStateTransition, a.ID, from)
	}
	return nil
}

func (r *AssignmentRepository) one(row *sql.Row) (*models.Assignment, error) {
	a, err := scanAssignment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("query assignment: %w", err)
	}
	return a, nil
}

func scanAssignment(s scanner) (*models.Assignment, error) {
	var (
		a          models.Assignment
		typ        string
		status     string
		expected   sql.NullTime
		returned   sql.NullTime
		idempotent sql.NullString
	)
	if err := s.Scan(
		&a.ID, &a.ResourceID, &typ, &a.RelatedID, &a.Quantity, &status,
		&a.AssignedAt, &expected, &returned, &a.Condition, &a.Notes, &a.AssignedBy, &idempotent,
	); err != nil {
		return nil, err
	}
	a.Type = models.AssignmentType(typ)
	a.Status = models.AssignmentStatus(status)
	a.AssignedAt = a.AssignedAt.UTC()
	a.ExpectedReturnAt = timePtr(expected)
	a.ReturnedAt = timePtr(returned)
	a.IdempotencyKey = idempotent.String
	return &a, nil
}
