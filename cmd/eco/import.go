package main

import (
	"fmt"
	"os"

	"github.com/Veraticus/eco-ledger/internal/cli"
	"github.com/Veraticus/eco-ledger/internal/common"
	"github.com/Veraticus/eco-ledger/internal/config"
	"github.com/Veraticus/eco-ledger/internal/export"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import structured activities from a CSV file",
		Long: `Import activities from a CSV file with category, quantity and unit
columns (variant and description are optional). A csv export can be
imported as is. Invalid rows are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			path := config.ExpandPath(args[0])
			f, err := os.Open(path) // #nosec G304
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer func() { _ = f.Close() }()

			rows, err := export.ReadEntries(f)
			if err != nil {
				return common.NewUserError(fmt.Sprintf("Cannot import %s", path), err)
			}

			ws, err := openWorkspace(ctx, "", true)
			if err != nil {
				return err
			}
			defer ws.Close()

			interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
			ctx = interrupts.HandleInterrupts(ctx, "Activities imported so far are saved.")

			prompter := cli.NewPrompter(cmd.InOrStdin(), out)
			prompter.StartImport(len(rows))

			var rejected []string
			for _, row := range rows {
				if ctx.Err() != nil {
					break
				}

				err := row.Err
				if err == nil {
					_, err = ws.record(ctx, row.Entry)
				}
				if err != nil {
					rejected = append(rejected, fmt.Sprintf("line %d: %v", row.Line, err))
					common.LogDebug("import row rejected", common.Fields{"line": row.Line, "error": err.Error()})
				}
				prompter.RecordImport(err)
			}

			prompter.FinishImport()

			for _, msg := range rejected {
				if _, err := fmt.Fprintln(out, cli.FormatWarning(msg)); err != nil {
					return err
				}
			}

			if interrupts.WasInterrupted() {
				return ctx.Err()
			}
			return nil
		},
	}
}
