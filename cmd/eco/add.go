package main

import (
	"fmt"
	"strconv"

	"github.com/Veraticus/eco-ledger/internal/cli"
	"github.com/Veraticus/eco-ledger/internal/common"
	"github.com/Veraticus/eco-ledger/internal/footprint"
	"github.com/Veraticus/eco-ledger/internal/model"
	"github.com/spf13/cobra"
)

func addCmd() *cobra.Command {
	var (
		variant string
		note    string
	)

	cmd := &cobra.Command{
		Use:   "add <category> <quantity> <unit>",
		Short: "Log a structured activity",
		Long: `Log an activity by category, quantity and unit, for example:

  eco add transport 15 km
  eco add diet 1 day --variant vegan
  eco add energy 3 kwh --note "dishwasher"`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := parseEntry(args[0], args[1], args[2])
			if err != nil {
				return err
			}
			entry.Variant = variant
			entry.Description = note

			ctx := cmd.Context()
			ws, err := openWorkspace(ctx, "", true)
			if err != nil {
				return err
			}
			defer ws.Close()

			rec, err := ws.record(ctx, entry)
			if err != nil {
				return explain(err)
			}

			common.LogDebug("activity added", common.Fields{"id": rec.ID, "emission_kg": rec.EmissionKg})
			return cli.RenderRecord(cmd.OutOrStdout(), rec)
		},
	}

	cmd.Flags().StringVar(&variant, "variant", "", "factor variant, such as diesel or vegan")
	cmd.Flags().StringVar(&note, "note", "", "free text description")

	return cmd
}

// parseEntry reads the positional arguments of add. Unit aliases are
// accepted; whether the unit fits the category is the ledger's call.
func parseEntry(category, quantity, unit string) (model.ActivityEntry, error) {
	c, err := model.ParseCategory(category)
	if err != nil {
		return model.ActivityEntry{}, explain(fmt.Errorf("%w: %w", footprint.ErrUnknownCategory, err))
	}
	q, err := strconv.ParseFloat(quantity, 64)
	if err != nil {
		return model.ActivityEntry{}, explain(fmt.Errorf("%w: %q is not a number", footprint.ErrInvalidQuantity, quantity))
	}
	u, err := model.ParseUnit(unit)
	if err != nil {
		return model.ActivityEntry{}, explain(fmt.Errorf("%w: %w", footprint.ErrInvalidUnit, err))
	}
	return model.ActivityEntry{Category: c, Quantity: q, Unit: u}, nil
}
