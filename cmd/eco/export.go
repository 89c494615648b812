package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/eco-ledger/internal/cli"
	"github.com/Veraticus/eco-ledger/internal/common"
	"github.com/Veraticus/eco-ledger/internal/config"
	"github.com/Veraticus/eco-ledger/internal/export"
	"github.com/Veraticus/eco-ledger/internal/sheets"
	"github.com/spf13/cobra"
)

// newSheetsWriter loads the sheets.* settings and builds the Google Sheets
// writer; tests replace it with a mock.
var newSheetsWriter = func(ctx context.Context) (export.ReportWriter, error) {
	cfg, err := config.LoadSheetsConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load sheets config: %w", err)
	}
	return sheets.NewWriter(ctx, *cfg, slog.Default())
}

func exportCmd() *cobra.Command {
	var (
		format string
		output string
		period string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the current session's footprint",
		Long: `Export the activities, breakdown and tier of the current session.

  eco export --format csv --output footprint.csv
  eco export --format sheets`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			ws, err := openWorkspace(ctx, period, false)
			if err != nil {
				return err
			}
			defer ws.Close()

			report := export.NewReport(ws.ledger, ws.session.Name, ws.period, time.Now())

			switch strings.ToLower(format) {
			case "csv":
				return exportCSV(ctx, cmd.OutOrStdout(), output, report)
			case "sheets":
				return exportSheets(ctx, cmd.OutOrStdout(), report)
			default:
				return common.NewUserError(fmt.Sprintf("Unknown export format %q (use csv or sheets)", format), common.ErrInvalidConfig)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "export format: csv or sheets")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file for csv (default: stdout)")
	cmd.Flags().StringVarP(&period, "period", "p", "", "tier period for the report")

	return cmd
}

func exportCSV(ctx context.Context, stdout io.Writer, output string, report export.Report) error {
	if output == "" || output == "-" {
		return export.NewCSVWriter(stdout).Write(ctx, report)
	}

	path := config.ExpandPath(output)
	f, err := os.Create(path) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := export.NewCSVWriter(f).Write(ctx, report); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	_, err = fmt.Fprintln(stdout, cli.FormatSuccess(fmt.Sprintf("Exported %d activities to %s", len(report.Rows), path)))
	return err
}

func exportSheets(ctx context.Context, stdout io.Writer, report export.Report) error {
	writer, err := newSheetsWriter(ctx)
	if err != nil {
		return common.NewUserError("Google Sheets is not set up. Run: eco auth sheets", err)
	}

	if err := writer.Write(ctx, report); err != nil {
		return fmt.Errorf("failed to export to Google Sheets: %w", err)
	}

	_, err = fmt.Fprintln(stdout, cli.FormatSuccess(fmt.Sprintf("%s Exported %d activities to Google Sheets", cli.ChartIcon, len(report.Rows))))
	return err
}
