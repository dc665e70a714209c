package migrator

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/ghuser/volunteerhub/migrations"
	"github.com/ghuser/volunteerhub/pkg/database"
)

// RunMigrations applies all pending goose migrations for the database's dialect.
// Returns the versions applied by this call.
func RunMigrations(ctx context.Context, db *database.Database) ([]int64, error) {
	provider, err := newProvider(db)
	if err != nil {
		return nil, err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to up migrations: %w", err)
	}

	applied := make([]int64, 0, len(results))
	for _, r := range results {
		applied = append(applied, r.Source.Version)
	}
	return applied, nil
}

// Version reports the highest applied migration version.
func Version(ctx context.Context, db *database.Database) (int64, error) {
	provider, err := newProvider(db)
	if err != nil {
		return 0, err
	}
	v, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read migration version: %w", err)
	}
	return v, nil
}

func newProvider(db *database.Database) (*goose.Provider, error) {
	files, err := migrations.FS(db.Dialect())
	if err != nil {
		return nil, err
	}

	dialect := goose.DialectPostgres
	if db.Dialect() == database.DialectSQLite {
		dialect = goose.DialectSQLite3
	}

	provider, err := goose.NewProvider(dialect, db.DB(), files)
	if err != nil {
		return nil, fmt.Errorf("failed to create goose provider: %w", err)
	}
	return provider, nil
}
