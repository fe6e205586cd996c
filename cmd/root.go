package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	app, err := wireApp()
	return buildRootCmd(app, err)
}

func buildRootCmd(app *app, wireErr error) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "shotbot",
		Short:         "shotbot: a party robot that pours shots at a responsible pace",
		Long:          "shotbot drives a camera robot around a party, recognises guests, asks how much they can take and pours them a shot whenever their cooldown allows. Guests and their shot history live in a redis cache or a local TOML file.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	if wireErr != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return wireErr
		}
		rootCmd.AddCommand(newVersionCmd())
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(app),
		newSessionCmd(app),
		newInviteeCmd(app),
	)

	return rootCmd
}
