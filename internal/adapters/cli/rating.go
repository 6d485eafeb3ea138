package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/searoutes-go/internal/app"
	playerQueries "github.com/andrescamacho/searoutes-go/internal/application/player/queries"
)

// NewRatingCommand creates the rating command
func NewRatingCommand() *cobra.Command {
	var (
		ratingType string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "rating",
		Short: "Show the earnings leaderboard",
		Long: `Show players ranked by earnings.

Examples:
  searoutes rating
  searoutes rating --type weekly --limit 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				resp, err := a.Mediator.Send(ctx, &playerQueries.GetRatingQuery{Type: ratingType, Limit: limit})
				if err != nil {
					return err
				}
				rating := resp.(*playerQueries.GetRatingResponse)
				if len(rating.Entries) == 0 {
					fmt.Println("No earnings yet.")
					return nil
				}

				w := newTable()
				fmt.Fprintf(w, "#\tPLAYER\t%s EARNINGS\n", rating.Type)
				fmt.Fprintln(w, "-\t------\t--------")
				for _, e := range rating.Entries {
					fmt.Fprintf(w, "%d\t%s\t%d\n", e.Rank, e.Username, e.Earnings)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&ratingType, "type", "total", "Leaderboard type: total or weekly")
	cmd.Flags().IntVar(&limit, "limit", 0, "Number of rows (0 uses the server default)")

	return cmd
}
