// Package migrations embeds the goose SQL migrations for each supported dialect.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/ghuser/volunteerhub/pkg/database"
)

//go:embed postgres/*.sql
var postgresFS embed.FS

//go:embed sqlite/*.sql
var sqliteFS embed.FS

// FS returns the migration files for dialect, rooted at the migration directory.
func FS(dialect database.Dialect) (fs.FS, error) {
	switch dialect {
	case database.DialectPostgres:
		return fs.Sub(postgresFS, "postgres")
	case database.DialectSQLite:
		return fs.Sub(sqliteFS, "sqlite")
	default:
		return nil, fmt.Errorf("migrations: unsupported dialect %q", dialect)
	}
}
