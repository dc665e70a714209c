// Command custodyctl is the operator CLI of the custody engine: it applies
// migrations, prints custody trails and verifies custody chains against the
// ledger.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ghuser/volunteerhub/pkg/config"
	"github.com/ghuser/volunteerhub/pkg/database"
	"github.com/ghuser/volunteerhub/pkg/logger"
	appsvcs "github.com/ghuser/volunteerhub/services/resource/application/services"
	"github.com/ghuser/volunteerhub/services/resource/domain/models"
	"github.com/ghuser/volunteerhub/services/resource/infrastructure/persistence/sqlstore"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// env is the state shared by every subcommand, opened in PersistentPreRunE.
type env struct {
	cfg   *config.Config
	log   logger.Logger
	db    *database.Database
	store *sqlstore.Store
	alloc *appsvcs.AllocationService
}

// operator is the actor custodyctl runs as. Reads and verification only.
var operator = models.Actor{UserID: uuid.Nil, Role: models.RoleAdmin}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "custodyctl",
		Short:         "Operate the resource custody ledger",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.open(cmd.Context())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			e.close()
		},
	}
	root.AddCommand(newMigrateCmd(e), newHistoryCmd(e), newVerifyCmd(e))
	return root
}

func (e *env) open(ctx context.Context) error {
	cfg, err := config.LoadEnv()
	if err != nil {
		return err
	}
	e.cfg = cfg
	e.log = logger.New(cfg, logger.WithWriter(os.Stderr))

	db, err := database.Open(ctx, cfg, e.log)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	e.db = db
	e.store = sqlstore.New(db, nil)
	e.alloc = appsvcs.NewAllocationService(e.store, e.log)
	return nil
}

func (e *env) close() {
	if e.db != nil {
		e.db.Close()
	}
}
