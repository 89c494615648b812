package main

import (
	"errors"
	"fmt"

	"github.com/Veraticus/eco-ledger/internal/cli"
	"github.com/Veraticus/eco-ledger/internal/common"
	"github.com/Veraticus/eco-ledger/internal/storage"
	"github.com/spf13/cobra"
)

func sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage footprint sessions",
		Long: `A session is an independent ledger. Its activities are kept between
runs until the session is ended. Select one with --session or session.name.`,
	}

	cmd.AddCommand(sessionStartCmd())
	cmd.AddCommand(sessionListCmd())
	cmd.AddCommand(sessionEndCmd())

	return cmd
}

func sessionStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <name>",
		Short: "Start a new session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			session, err := store.CreateSession(ctx, args[0])
			if errors.Is(err, storage.ErrSessionExists) {
				return common.NewUserError(fmt.Sprintf("Session %q already exists", args[0]), err)
			}
			if err != nil {
				return fmt.Errorf("failed to start session: %w", err)
			}

			common.LogInfo("session started", common.Fields{"session": session.Name, "id": session.ID})
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Session %q started. Use it with: eco --session %s", session.Name, session.Name)))
			return err
		},
	}
}

func sessionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			sessions, err := store.ListSessions(ctx)
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}
			return cli.RenderSessions(cmd.OutOrStdout(), sessions, sessionName())
		},
	}
}

func sessionEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end [name]",
		Short: "End a session and discard its activities",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			name := sessionName()
			if len(args) == 1 {
				name = args[0]
			}

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			err = store.DeleteSession(ctx, name)
			if errors.Is(err, storage.ErrSessionMissing) {
				return common.NewUserError(fmt.Sprintf("No session named %q", name), err)
			}
			if err != nil {
				return fmt.Errorf("failed to end session: %w", err)
			}

			common.LogInfo("session ended", common.Fields{"session": name})
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Session %q ended", name)))
			return err
		},
	}
}
