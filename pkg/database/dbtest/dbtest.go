// Package dbtest provides migrated databases for tests: an in-memory SQLite
// database, and a postgres database when TEST_DATABASE_URL is set.
package dbtest

import (
	"context"
	"os"
	"testing"

	"github.com/ghuser/volunteerhub/pkg/config"
	"github.com/ghuser/volunteerhub/pkg/database"
	"github.com/ghuser/volunteerhub/pkg/logger"
	"github.com/ghuser/volunteerhub/pkg/migrator"
)

// New opens a fresh in-memory SQLite database with every migration applied.
// The database is closed when the test finishes.
func New(t testing.TB) *database.Database {
	t.Helper()

	log := logger.New(&config.Config{LogLevel: "error"})
	db, err := database.OpenSQLite(context.Background(), ":memory:", log)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(db.Close)

	if _, err := migrator.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

// Postgres connects to TEST_DATABASE_URL and applies every migration. The test
// is skipped when the variable is unset. Rows are left in place; tests seed
// their own random ids.
func Postgres(t testing.TB) *database.Database {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	log := logger.New(&config.Config{LogLevel: "error"})
	db, err := database.NewPool(context.Background(), url, log)
	if err != nil {
		t.Fatalf("connecting to test database: %v", err)
	}
	t.Cleanup(db.Close)

	if _, err := migrator.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}
