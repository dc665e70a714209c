package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ghuser/volunteerhub/services/resource/domain/models"
	"github.com/ghuser/volunteerhub/services/resource/domain/repositories"
)

func newHistoryCmd(e *env) *cobra.Command {
	var (
		asc   bool
		limit int
	)
	cmd := &cobra.Command{
		Use:   "history <resource-id>",
		Short: "Print the custody trail of a resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid resource id %q: %w", args[0], err)
			}
			opts := repositories.HistoryOpts{Ascending: asc, QueryOpts: repositories.QueryOpts{Limit: limit}}
			entries, err := e.alloc.History(cmd.Context(), operator, id, opts)
			if err != nil {
				return err
			}
			return printHistory(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().BoolVar(&asc, "asc", false, "oldest entry first")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum entries to print (0 for all)")
	return cmd
}

func printHistory(w io.Writer, entries []*models.CustodyEntry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tTIME\tACTION\tACTOR\tTRANSITION")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			e.Sequence,
			e.CreatedAt.UTC().Format(time.RFC3339),
			e.Action(),
			e.ActorUserID,
			e.Event.Describe(),
		)
	}
	return tw.Flush()
}
