package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/bnema/shotbot/internal/domain"
	"github.com/spf13/cobra"
)

func newSessionCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect party sessions",
	}

	cmd.AddCommand(
		newSessionListCmd(app),
		newSessionStatusCmd(app),
	)

	return cmd
}

func newSessionListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded sessions, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			sessions, err := app.sessionService(store, nil).List(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, sessions)
			}

			rendered, err := app.sessionsRenderer(sessions)
			if err != nil {
				return fmt.Errorf("render sessions: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}

func newSessionStatusCmd(app *app) *cobra.Command {
	var (
		sessionID string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show invitees and cooldowns of a session (latest by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			status, err := app.sessionService(store, nil).Status(cmd.Context(), domain.SessionID(sessionID))
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, status)
			}

			rendered, err := app.statusRenderer(status)
			if err != nil {
				return fmt.Errorf("render status: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID (defaults to the latest session)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}

func writeJSON(cmd *cobra.Command, value any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
