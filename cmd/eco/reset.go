package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/eco-ledger/internal/cli"
	"github.com/Veraticus/eco-ledger/internal/common"
	"github.com/spf13/cobra"
)

func resetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear every activity in the current session",
		Long: `Reset removes all logged activities from the current session. The
session itself is kept; use 'eco session end' to remove it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			ws, err := openWorkspace(ctx, "", false)
			if err != nil {
				return err
			}
			defer ws.Close()

			count := ws.ledger.Len()
			if count == 0 {
				_, err := fmt.Fprintln(out, cli.FormatInfo("No activities logged. Nothing to reset."))
				return err
			}

			// Confirm with user unless --force is used
			if !force {
				prompt := fmt.Sprintf("This will delete %d activities from session %q. Continue? [y/N]", count, ws.session.Name)
				if _, err := fmt.Fprint(out, cli.FormatPrompt(prompt)); err != nil {
					return err
				}
				answer, err := cli.NewLineReader(cmd.InOrStdin()).ReadLine(ctx)
				if err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
				if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
					_, err := fmt.Fprintln(out, "Reset canceled.")
					return err
				}
			}

			if err := ws.store.ClearActivities(ctx, ws.session.ID); err != nil {
				return fmt.Errorf("failed to clear activities: %w", err)
			}
			ws.ledger.Reset()

			common.LogInfo("session reset", common.Fields{"session": ws.session.Name, "activities": count})
			_, err = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Removed %d activities from %q", count, ws.session.Name)))
			return err
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}
