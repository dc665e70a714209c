package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/volunteerhub/services/resource/domain/models"
)

// HistoryOpts controls custody trail reads.
type HistoryOpts struct {
	Ascending bool // oldest first; default is newest first
	QueryOpts
}

// CustodyTrail is the append-only audit trail of custody events.
type CustodyTrail interface {
	// Append writes one entry. It must run in the transaction of the mutation it records.
	Append(ctx context.Context, e *models.CustodyEntry) error

	// History returns the entries of a resource ordered by sequence.
	History(ctx context.Context, resourceID uuid.UUID, opts HistoryOpts) ([]*models.CustodyEntry, error)
}
