package main

import (
	"fmt"

	"github.com/Veraticus/eco-ledger/internal/cli"
	"github.com/Veraticus/eco-ledger/internal/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func factorsCmd() *cobra.Command {
	var (
		check  bool
		period string
	)

	cmd := &cobra.Command{
		Use:   "factors",
		Short: "Show or check the emission factor table",
		Long: `Show the emission factors activities are priced with and the tier bands
for a period. The table comes from footprint.factors_file, or the defaults
shipped with eco.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			profile, err := loadProfile()
			if err != nil {
				return err
			}
			table, err := profile.FactorTable()
			if err != nil {
				return common.NewUserError("The emission factor table is invalid", err)
			}

			if check {
				for _, p := range profile.Periods() {
					if _, err := resolveThresholds(profile, p); err != nil {
						return common.NewUserError(fmt.Sprintf("Tier bands for %q are invalid", p), err)
					}
				}
				source := viper.GetString("footprint.factors_file")
				if source == "" {
					source = "built-in defaults"
				}
				_, err = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%d factors and %d tier periods OK (%s)", table.Len(), len(profile.Periods()), source)))
				return err
			}

			p := resolvePeriod(period)
			thresholds, err := resolveThresholds(profile, p)
			if err != nil {
				return common.NewUserError("The impact tier thresholds are invalid", err)
			}

			if err := cli.RenderFactors(out, table); err != nil {
				return err
			}
			return cli.RenderThresholds(out, p, thresholds)
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "validate the factor table and tier bands, then exit")
	cmd.Flags().StringVarP(&period, "period", "p", "", "tier period to show")

	return cmd
}
