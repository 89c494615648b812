package main

import (
	"fmt"

	"github.com/Veraticus/eco-ledger/internal/cli"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the footprint of the current session",
		Long: `Show every logged activity, the emissions per category and the
impact tier of the total. The tier bands depend on the period the session
covers (daily, weekly or annual).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := openWorkspace(cmd.Context(), period, false)
			if err != nil {
				return err
			}
			defer ws.Close()

			title := fmt.Sprintf("Footprint: %s (%s)", ws.session.Name, ws.period)
			return cli.RenderReport(cmd.OutOrStdout(), title, ws.ledger.Snapshot())
		},
	}

	cmd.Flags().StringVarP(&period, "period", "p", "", "tier period: daily, weekly or annual (default from footprint.period)")

	return cmd
}
