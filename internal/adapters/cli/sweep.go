package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/searoutes-go/internal/adapters/scheduler"
	"github.com/andrescamacho/searoutes-go/internal/app"
)

// NewSweepCommand creates the sweep command
func NewSweepCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Complete every voyage whose arrival time has passed",
		Long: `Run one travel sweep, the same pass the server runs on its schedule.

Useful when the server runs with the sweeper disabled, e.g. from an
external cron.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				ctx, cancel := context.WithTimeout(ctx, timeout)
				defer cancel()

				result, err := scheduler.NewTravelSweeper(a.Mediator, timeout, a.Log).Sweep(ctx)
				if err != nil {
					return err
				}

				fmt.Printf("Checked %d, completed %d, failed %d\n", result.Checked, result.Completed, result.Failed)
				for _, id := range result.VesselIDs {
					fmt.Printf("  ⚓ %s\n", id)
				}
				return nil
			})
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "Upper bound for the sweep")

	return cmd
}
