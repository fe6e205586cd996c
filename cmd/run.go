package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRunCmd(app *app) *cobra.Command {
	var (
		simulate bool
		cycles   int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start a party session and serve guests until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			if cycles < 0 {
				return fmt.Errorf("--cycles must not be negative, got %d", cycles)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := app.openStore(ctx)
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, store.Close())
			}()

			robot, err := app.connectRobot(ctx, simulate, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, robot.Close())
			}()

			events, closeEvents, err := app.openEvents(ctx)
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, closeEvents())
			}()

			session, runErr := app.newParty(store, robot, events).Run(ctx, cycles)
			if session.ID != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session %s\n", session.ID)
			}
			if runErr != nil {
				if errors.Is(runErr, context.Canceled) && ctx.Err() != nil {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "party stopped")
					return nil
				}
				return fmt.Errorf("run party: %w", runErr)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&simulate, "simulate", false, "Use the simulated robot instead of the bridge")
	cmd.Flags().IntVar(&cycles, "cycles", 0, "Number of serve-then-roam cycles (0 runs until interrupted)")

	return cmd
}
