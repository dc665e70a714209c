// Package sqlstore implements the resource repositories on database/sql.
// The same queries run on postgres and sqlite; placeholders are written as `?`
// and rebound per dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/volunteerhub/pkg/database"
	"github.com/ghuser/volunteerhub/services/resource/domain/repositories"
)

// Outbox opens a publisher bound to a transaction. *events.EventBus satisfies it.
type Outbox interface {
	NewTxPublisher(tx *sql.Tx) (message.Publisher, error)
}

// querier is the subset of *sql.DB and *sql.Tx the repositories use.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type conn struct {
	q       querier
	dialect database.Dialect
	tx      *sql.Tx // nil outside WithinTx
}

func (c conn) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.q.ExecContext(ctx, database.Rebind(c.dialect, query), args...)
}

func (c conn) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.q.QueryContext(ctx, database.Rebind(c.dialect, query), args...)
}

func (c conn) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return c.q.QueryRowContext(ctx, database.Rebind(c.dialect, query), args...)
}

// Store implements repositories.Store.
type Store struct {
	db     *database.Database
	outbox Outbox
}

var _ repositories.Store = (*Store)(nil)

// New returns a Store over db. When outbox is non-nil every custody entry is
// also published to the event bus in the transaction that writes it.
func New(db *database.Database, outbox Outbox) *Store {
	return &Store{db: db, outbox: outbox}
}

// Repositories returns repositories bound to the connection pool.
func (s *Store) Repositories() repositories.Repositories {
	return s.bind(conn{q: s.db.DB(), dialect: s.db.Dialect()})
}

// WithinTx runs fn with repositories bound to one transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(repositories.Repositories) error) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		return fn(s.bind(conn{q: tx, dialect: s.db.Dialect(), tx: tx}))
	})
}

func (s *Store) bind(c conn) repositories.Repositories {
	return repositories.Repositories{
		Resources:   &ResourceLedger{conn: c},
		Assignments: &AssignmentRepository{conn: c},
		Custody:     &CustodyTrail{conn: c, outbox: s.outbox},
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
