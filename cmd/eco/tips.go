package main

import (
	"errors"
	"fmt"

	"github.com/Veraticus/eco-ledger/internal/cli"
	"github.com/Veraticus/eco-ledger/internal/common"
	"github.com/spf13/cobra"
)

func tipsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tips",
		Short: "Suggest ways to lower the current footprint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			ws, err := openWorkspace(ctx, "", false)
			if err != nil {
				return err
			}
			defer ws.Close()

			extractor, err := newExtractor(ws.ledger.Factors())
			if err != nil {
				return err
			}

			tips, err := extractor.SuggestTips(ctx, ws.ledger.Records())
			if errors.Is(err, common.ErrNoSuggestions) {
				_, writeErr := fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No suggestions right now. Try again later."))
				return writeErr
			}
			if err != nil {
				return common.NewUserError("Could not get suggestions", err)
			}

			return cli.RenderTips(cmd.OutOrStdout(), tips)
		},
	}
}
