package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ghuser/volunteerhub/services/resource/domain/repositories"
)

func newVerifyCmd(e *env) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "verify [resource-id...]",
		Short: "Replay custody chains and compare them with the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) > 0) {
				return errors.New("pass resource ids or --all")
			}

			ids := make([]uuid.UUID, 0, len(args))
			for _, a := range args {
				id, err := uuid.Parse(a)
				if err != nil {
					return fmt.Errorf("invalid resource id %q: %w", a, err)
				}
				ids = append(ids, id)
			}
			if all {
				list, _, err := e.store.Repositories().Resources.List(cmd.Context(), repositories.ResourceFilter{})
				if err != nil {
					return err
				}
				for _, r := range list {
					ids = append(ids, r.ID)
				}
			}

			out := cmd.OutOrStdout()
			var failed int
			for _, id := range ids {
				rec, err := e.alloc.Verify(cmd.Context(), operator, id)
				if err != nil {
					failed++
					fmt.Fprintf(out, "FAIL %s: %v\n", id, err)
					continue
				}
				fmt.Fprintf(out, "ok   %s: %d entries, %d assignments\n", id, rec.Entries, len(rec.Assignments))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d custody chains failed verification", failed, len(ids))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "verify every resource")
	return cmd
}
