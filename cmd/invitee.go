package cmd

import (
	"fmt"
	"strings"

	"github.com/bnema/shotbot/internal/application"
	"github.com/bnema/shotbot/internal/domain"
	"github.com/spf13/cobra"
)

func newInviteeCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invitee",
		Short: "Inspect invitees",
	}

	cmd.AddCommand(newInviteeShowCmd(app))

	return cmd
}

func newInviteeShowCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <invitee-id>",
		Short: "Show one invitee and their shot history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			id := domain.InviteeID(strings.TrimSpace(args[0]))
			invitees := application.NewInviteeService(store, nil, nil, nil, app.clock, app.logger)

			invitee, err := invitees.Lookup(cmd.Context(), id)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, invitee)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "id:\t%s\n", invitee.ID)
			_, _ = fmt.Fprintf(out, "name:\t%s\n", invitee.Name)
			_, _ = fmt.Fprintf(out, "tolerance:\t%s\n", invitee.Tolerance.Label())
			_, err = fmt.Fprintf(out, "shots:\t%s\n", shotsLabel(invitee.ShotsTaken))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}

func shotsLabel(shots []int64) string {
	if len(shots) == 0 {
		return "none"
	}

	labels := make([]string, 0, len(shots))
	for _, shot := range shots {
		labels = append(labels, fmt.Sprintf("+%ds", shot))
	}

	return strings.Join(labels, " ")
}
