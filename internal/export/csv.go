package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// CSVHeader is the first row of every CSV export.
var CSVHeader = []string{
	"recorded_at",
	"category",
	"variant",
	"description",
	"quantity",
	"unit",
	"factor_kg_per_unit",
	"emission_kg",
}

// CSVWriter writes report rows as comma separated values.
type CSVWriter struct {
	w io.Writer
}

// NewCSVWriter creates a CSV writer on w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: w}
}

// Write emits the header followed by one line per record in ledger order.
func (c *CSVWriter) Write(ctx context.Context, report Report) error {
	cw := csv.NewWriter(c.w)

	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range report.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}

		record := []string{
			row.RecordedAt.UTC().Format(time.RFC3339),
			string(row.Category),
			row.Variant,
			row.Description,
			formatFloat(row.Quantity),
			string(row.Unit),
			formatFloat(row.Factor),
			formatFloat(row.EmissionKg),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
