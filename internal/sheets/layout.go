package sheets

import (
	"fmt"

	"github.com/Veraticus/eco-ledger/internal/export"
)

// detailColumns heads the per-activity section.
var detailColumns = []any{
	"Recorded At",
	"Category",
	"Variant",
	"Description",
	"Quantity",
	"Unit",
	"Factor (kg/unit)",
	"Emission (kg)",
}

// reportLayout is the grid written to the sheet plus the row indexes
// (zero based) the formatter needs.
type reportLayout struct {
	values      [][]any
	sectionRows []int
	headerRows  []int
}

func (l *reportLayout) add(row ...any) {
	l.values = append(l.values, row)
}

func (l *reportLayout) section(title string) {
	l.sectionRows = append(l.sectionRows, len(l.values))
	l.add(title)
}

func (l *reportLayout) header(cols ...any) {
	l.headerRows = append(l.headerRows, len(l.values))
	l.add(cols...)
}

// buildLayout lays out a summary block, the category breakdown and the
// activity rows in ledger order.
func buildLayout(report export.Report) reportLayout {
	layout := reportLayout{
		values: make([][]any, 0, 16+len(report.Breakdown)+len(report.Rows)),
	}

	title := "Carbon Footprint Report"
	if report.Session != "" {
		title = fmt.Sprintf("%s: %s", title, report.Session)
	}
	layout.add(title, report.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"))
	layout.add()

	layout.section("Summary")
	layout.add("Total (kg CO2e)", report.TotalKg)
	layout.add("Impact tier", report.Tier.Label())
	layout.add("Period", report.Period)
	layout.add("Moderate from (kg)", report.Thresholds.Moderate)
	layout.add("High from (kg)", report.Thresholds.High)
	layout.add("Activities", len(report.Rows))
	layout.add()

	layout.section("Category Breakdown")
	layout.header("Category", "Emission (kg)", "Share")
	for _, share := range report.Breakdown {
		layout.add(share.Category.Title(), share.EmissionKg, share.Share)
	}
	layout.add()

	layout.section("Activity Details")
	layout.header(detailColumns...)
	for _, row := range report.Rows {
		layout.add(
			row.RecordedAt.UTC().Format("2006-01-02 15:04:05"),
			row.Category.Title(),
			row.Variant,
			row.Description,
			row.Quantity,
			string(row.Unit),
			row.Factor,
			row.EmissionKg,
		)
	}

	return layout
}
