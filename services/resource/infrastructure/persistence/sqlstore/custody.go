package sqlstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/volunteerhub/pkg/database"
	pkgevents "github.com/ghuser/volunteerhub/pkg/events"
	"github.com/ghuser/volunteerhub/services/resource/domain"
	"github.com/ghuser/volunteerhub/services/resource/domain/events"
	"github.com/ghuser/volunteerhub/services/resource/domain/models"
	"github.com/ghuser/volunteerhub/services/resource/domain/repositories"
)

// CustodyTrail implements repositories.CustodyTrail over audit_logs.
type CustodyTrail struct {
	conn
	outbox Outbox
}

var _ repositories.CustodyTrail = (*CustodyTrail)(nil)

// Append inserts the entry and, inside a transaction with an outbox, publishes
// a CustodyRecordedEvent that commits or rolls back with it.
func (c *CustodyTrail) Append(ctx context.Context, e *models.CustodyEntry) error {
	metadata, err := models.EncodeCustodyMetadata(e.Event, e.CreatedAt)
	if err != nil {
		return err
	}

	_, err = c.exec(ctx, `INSERT INTO audit_logs
		(id, actor_user_id, action, entity_type, entity_id, sequence, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ActorUserID, e.Action(), models.EntityTypeResource, e.ResourceID,
		e.Sequence, string(metadata), e.CreatedAt.UTC(),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%w: sequence %d already recorded for resource %s",
				domain.ErrCustodyChainBroken, e.Sequence, e.ResourceID)
		}
		return fmt.Errorf("insert custody entry: %w", err)
	}

	if c.tx != nil && c.outbox != nil {
		if err := c.publishRecorded(e); err != nil {
			return fmt.Errorf("publish custody recorded: %w", err)
		}
	}
	return nil
}

// History returns a resource's custody entries ordered by sequence.
func (c *CustodyTrail) History(ctx context.Context, resourceID uuid.UUID, opts repositories.HistoryOpts) ([]*models.CustodyEntry, error) {
	order := "DESC"
	if opts.Ascending {
		order = "ASC"
	}
	q := `SELECT id, actor_user_id, entity_id, sequence, metadata, created_at FROM audit_logs
		WHERE entity_type = ? AND entity_id = ? ORDER BY sequence ` + order
	args := []any{models.EntityTypeResource, resourceID}
	if opts.Limit > 0 {
		q += ` LIMIT ? OFFSET ?`
		args = append(args, opts.Limit, opts.Offset)
	}

	rows, err := c.query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query custody history: %w", err)
	}
	defer rows.Close()

	var out []*models.CustodyEntry
	for rows.Next() {
		var (
			e        models.CustodyEntry
			metadata []byte
		)
		if err := rows.Scan(&e.ID, &e.ActorUserID, &e.ResourceID, &e.Sequence, &metadata, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan custody entry: %w", err)
		}
		ev, err := models.DecodeCustodyMetadata(metadata)
		if err != nil {
			return nil, fmt.Errorf("custody entry %s: %w", e.ID, err)
		}
		e.Event = ev
		e.CreatedAt = e.CreatedAt.UTC()
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate custody history: %w", err)
	}
	return out, nil
}

func (c *CustodyTrail) publishRecorded(e *models.CustodyEntry) error {
	event := events.CustodyRecordedEvent{
		EventID:        uuid.New(),
		Version:        1,
		EntryID:        e.ID,
		ResourceID:     e.ResourceID,
		OrganizationID: e.Event.ResourceChange().After.OrganizationID,
		Sequence:       e.Sequence,
		Kind:           string(e.Event.Kind()),
		Action:         e.Action(),
		OccurredAt:     e.CreatedAt,
	}
	msg, err := pkgevents.NewMessage(event.EventID, event.Version, event)
	if err != nil {
		return err
	}
	p, err := c.outbox.NewTxPublisher(c.tx)
	if err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}
	return p.Publish(events.TopicCustodyRecorded, msg)
}
