package cmd

import (
	"fmt"

	sqlitejournal "github.com/bnema/pcg-autocatch/internal/adapters/journal/sqlite"
	statusadapter "github.com/bnema/pcg-autocatch/internal/adapters/render/status"
	"github.com/spf13/cobra"
)

func newHistoryCmd(app *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently handled spawns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			journal, err := sqlitejournal.Open(cmd.Context(), app.journalPath)
			if err != nil {
				return err
			}
			defer func() { _ = journal.Close() }()

			entries, err := journal.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			rendered, err := statusadapter.RenderJournal(entries, statusadapter.RenderOptions{Now: app.now()})
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of entries to show")

	return cmd
}
