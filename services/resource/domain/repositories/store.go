package repositories

import "context"

// Repositories bundles the repositories bound to one connection or transaction.
type Repositories struct {
	Resources   ResourceLedger
	Assignments AssignmentRepository
	Custody     CustodyTrail
}

// Store opens units of work over the resource tables.
type Store interface {
	// Repositories returns repositories bound to the pool, for reads outside a transaction.
	Repositories() Repositories

	// WithinTx runs fn with repositories bound to a single transaction, committing
	// when fn returns nil and rolling back otherwise.
	WithinTx(ctx context.Context, fn func(Repositories) error) error
}
