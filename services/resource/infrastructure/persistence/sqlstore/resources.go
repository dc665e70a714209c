package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/volunteerhub/pkg/database"
	"github.com/ghuser/volunteerhub/services/resource/domain"
	"github.com/ghuser/volunteerhub/services/resource/domain/models"
	"github.com/ghuser/volunteerhub/services/resource/domain/repositories"
)

const resourceColumns = `id, organization_id, name, category, description, quantity_total,
	quantity_available, serial_number, is_returnable, status, location, custody_seq,
	created_at, updated_at`

// ResourceLedger implements repositories.ResourceLedger.
type ResourceLedger struct {
	conn
}

var _ repositories.ResourceLedger = (*ResourceLedger)(nil)

// Create inserts a new resource. Returns ErrResourceAlreadyExists when the
// serial number is taken.
func (r *ResourceLedger) Create(ctx context.Context, res *models.Resource) error {
	_, err := r.exec(ctx, `INSERT INTO resources (`+resourceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID, res.OrganizationID, res.Name.String(), res.Category, res.Description,
		res.QuantityTotal, res.QuantityAvailable, nullString(res.SerialNumber), res.IsReturnable,
		string(res.Status), res.Location, res.CustodySeq, res.CreatedAt.UTC(), res.UpdatedAt.UTC(),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.ErrResourceAlreadyExists
		}
		return fmt.Errorf("insert resource: %w", err)
	}
	return nil
}

// GetByID returns the resource or ErrResourceNotFound.
func (r *ResourceLedger) GetByID(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
	row := r.queryRow(ctx, `SELECT `+resourceColumns+` FROM resources WHERE id = ?`, id)
	res, err := scanResource(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrResourceNotFound
		}
		return nil, fmt.Errorf("query resource: %w", err)
	}
	return res, nil
}

// List returns a page of resources ordered by name and the unpaginated count.
func (r *ResourceLedger) List(ctx context.Context, f repositories.ResourceFilter) ([]*models.Resource, int, error) {
	var where []string
	var args []any
	if f.OrganizationID != uuid.Nil {
		where = append(where, "organization_id = ?")
		args = append(args, f.OrganizationID)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.queryRow(ctx, `SELECT COUNT(*) FROM resources`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count resources: %w", err)
	}

	q := `SELECT ` + resourceColumns + ` FROM resources` + clause + ` ORDER BY name, id`
	if f.Limit > 0 {
		q += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}
	rows, err := r.query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query resources: %w", err)
	}
	defer rows.Close()

	var out []*models.Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan resource: %w", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate resources: %w", err)
	}
	return out, total, nil
}

// Lock bumps custody_seq with an UPDATE, which holds the row lock until the
// transaction ends, and returns the resource as of the lock.
func (r *ResourceLedger) Lock(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
	if err := r.update(ctx, `UPDATE resources SET custody_seq = custody_seq + 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id); err != nil {
		if errors.Is(err, domain.ErrResourceNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("lock resource: %w", err)
	}
	return r.GetByID(ctx, id)
}

// DecrementAvailable removes n units only if at least n are available.
func (r *ResourceLedger) DecrementAvailable(ctx context.Context, id uuid.UUID, n int) error {
	res, err := r.exec(ctx, `UPDATE resources SET quantity_available = quantity_available - ?, updated_at = ?
		WHERE id = ? AND quantity_available >= ?`, n, time.Now().UTC(), id, n)
	if err != nil {
		return fmt.Errorf("decrement available: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("decrement available: %w", err)
	} else if affected == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

// IncrementAvailable restores n units only if the total is not exceeded.
func (r *ResourceLedger) IncrementAvailable(ctx context.Context, id uuid.UUID, n int) error {
	res, err := r.exec(ctx, `UPDATE resources SET quantity_available = quantity_available + ?, updated_at = ?
		WHERE id = ? AND quantity_available + ? <= quantity_total`, n, time.Now().UTC(), id, n)
	if err != nil {
		return fmt.Errorf("increment available: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("increment available: %w", err)
	} else if affected == 0 {
		return fmt.Errorf("%w: restoring %d units to resource %s exceeds its total", domain.ErrLedgerCorruption, n, id)
	}
	return nil
}

// SetOwner moves the resource to organizationID.
func (r *ResourceLedger) SetOwner(ctx context.Context, id, organizationID uuid.UUID) error {
	return r.update(ctx, `UPDATE resources SET organization_id = ?, updated_at = ? WHERE id = ?`,
		organizationID, time.Now().UTC(), id)
}

// SetStatus overwrites the ledger status.
func (r *ResourceLedger) SetStatus(ctx context.Context, id uuid.UUID, status models.ResourceStatus) error {
	return r.update(ctx, `UPDATE resources SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id)
}

func (r *ResourceLedger) update(ctx context.Context, q string, args ...any) error {
	res, err := r.exec(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update resource: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("update resource: %w", err)
	} else if affected == 0 {
		return domain.ErrResourceNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResource(s scanner) (*models.Resource, error) {
	var (
		res    models.Resource
		name   string
		serial sql.NullString
		status string
	)
	if err := s.Scan(
		&res.ID, &res.OrganizationID, &name, &res.Category, &res.Description, &res.QuantityTotal,
		&res.QuantityAvailable, &serial, &res.IsReturnable, &status, &res.Location, &res.CustodySeq,
		&res.CreatedAt, &res.UpdatedAt,
	); err != nil {
		return nil, err
	}
	res.Name = models.ResourceName(name)
	res.SerialNumber = serial.String
	res.Status = models.ResourceStatus(status)
	res.CreatedAt = res.CreatedAt.UTC()
	res.UpdatedAt = res.UpdatedAt.UTC()
	return &res, nil
}
