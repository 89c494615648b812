package cli

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Veraticus/eco-ledger/internal/footprint"
	"github.com/Veraticus/eco-ledger/internal/model"
)

const shareBarWidth = 20

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// RenderRecord prints the confirmation line for a newly logged activity.
func RenderRecord(w io.Writer, record model.ActivityRecord) error {
	label := record.Category.Title()
	if record.Variant != "" {
		label += " (" + record.Variant + ")"
	}
	msg := fmt.Sprintf("Logged %s: %s %s × %s kg/%s = %s kg CO2e",
		label,
		formatNumber(record.Quantity), record.Unit,
		formatNumber(record.Factor), record.Unit,
		formatKg(record.EmissionKg))
	_, err := fmt.Fprintln(w, FormatSuccess(msg))
	return err
}

// RenderReport prints the records, the category breakdown and the tier.
func RenderReport(w io.Writer, title string, snapshot footprint.Snapshot) error {
	if _, err := fmt.Fprintln(w, FormatTitle(title)); err != nil {
		return err
	}

	if len(snapshot.Records) == 0 {
		_, err := fmt.Fprintln(w, FormatInfo("No activities logged yet."))
		return err
	}

	tw := newTable(w)
	_, _ = fmt.Fprintln(tw, "#\tCATEGORY\tACTIVITY\tQUANTITY\tEMISSION (kg)")
	for i, r := range snapshot.Records {
		activity := r.Description
		if activity == "" {
			activity = r.Variant
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s %s\t%s\n",
			i+1, r.Category.Title(), activity, formatNumber(r.Quantity), r.Unit, formatKg(r.EmissionKg))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}

	if _, err := fmt.Fprintln(w, "\n"+BoldStyle.Render(ChartIcon+" Breakdown by category")); err != nil {
		return err
	}
	tw = newTable(w)
	for _, share := range snapshot.Shares() {
		_, _ = fmt.Fprintf(tw, "%s\t%s kg\t%s\t%5.1f%%\n",
			share.Category.Title(), formatKg(share.EmissionKg), shareBar(share.Share), share.Share*100)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write breakdown: %w", err)
	}

	summary := fmt.Sprintf("\nTotal: %s kg CO2e\nImpact: %s",
		BoldStyle.Render(formatKg(snapshot.Total)), FormatTier(snapshot.Tier))
	_, err := fmt.Fprintln(w, summary)
	return err
}

// RenderFactors prints the factor table grouped by category.
func RenderFactors(w io.Writer, table *footprint.FactorTable) error {
	if _, err := fmt.Fprintln(w, FormatTitle("Emission factors")); err != nil {
		return err
	}

	tw := newTable(w)
	_, _ = fmt.Fprintln(tw, "CATEGORY\tUNIT\tVARIANT\tKG CO2e / UNIT")
	for _, f := range table.Factors() {
		variant := f.Key.Variant
		if variant == "" {
			variant = "(baseline)"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.Key.Category, f.Key.Unit, variant, formatNumber(f.KgPerUnit))
	}
	return tw.Flush()
}

// RenderThresholds prints the tier bands in use.
func RenderThresholds(w io.Writer, period string, t footprint.Thresholds) error {
	lines := []string{
		fmt.Sprintf("%s below %s kg", FormatTier(model.TierLow), formatNumber(t.Moderate)),
		fmt.Sprintf("%s from %s kg", FormatTier(model.TierModerate), formatNumber(t.Moderate)),
		fmt.Sprintf("%s from %s kg", FormatTier(model.TierHigh), formatNumber(t.High)),
	}
	_, err := fmt.Fprintln(w, RenderBox("Tiers ("+period+")", strings.Join(lines, "\n")))
	return err
}

// RenderTips prints eco tips with their impact.
func RenderTips(w io.Writer, tips []model.EcoTip) error {
	if _, err := fmt.Fprintln(w, FormatTitle("Suggestions")); err != nil {
		return err
	}
	for i, tip := range tips {
		impact := SubtleStyle.Render(string(tip.Impact) + " impact")
		switch tip.Impact {
		case model.TipImpactHigh:
			impact = SuccessStyle.Render(string(tip.Impact) + " impact")
		case model.TipImpactMedium:
			impact = InfoStyle.Render(string(tip.Impact) + " impact")
		}
		if _, err := fmt.Fprintf(w, "%s %d. %s [%s, %s]\n", TipIcon, i+1, tip.Title, tip.Category, impact); err != nil {
			return err
		}
	}
	return nil
}

// RenderSessions lists sessions, marking the active one.
func RenderSessions(w io.Writer, sessions []model.Session, active string) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, FormatInfo("No sessions yet. Start one with: eco session start <name>"))
		return err
	}

	tw := newTable(w)
	_, _ = fmt.Fprintln(tw, "\tNAME\tCREATED")
	for _, s := range sessions {
		marker := " "
		if s.Name == active {
			marker = "*"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", marker, s.Name, s.CreatedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

func shareBar(share float64) string {
	filled := int(math.Round(share * shareBarWidth))
	filled = max(0, min(filled, shareBarWidth))
	return BarStyle.Render(strings.Repeat("█", filled)) + SubtleStyle.Render(strings.Repeat("░", shareBarWidth-filled))
}

func formatKg(kg float64) string {
	return fmt.Sprintf("%.2f", kg)
}

// formatNumber prints f with as many digits as it needs, so small factors
// never round to zero.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
