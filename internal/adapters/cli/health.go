package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/searoutes-go/internal/app"
)

// NewHealthCommand creates the health command
func NewHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the database is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				sqlDB, err := a.DB.DB()
				if err != nil {
					return err
				}

				ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
				defer cancel()

				start := time.Now()
				if err := sqlDB.PingContext(ctx); err != nil {
					return fmt.Errorf("database unreachable: %w", err)
				}

				fmt.Println("✓ Database is healthy")
				fmt.Printf("  Type:      %s\n", a.Config.Database.Type)
				fmt.Printf("  Latency:   %s\n", time.Since(start).Round(time.Microsecond))
				fmt.Printf("  Open:      %d connections\n", sqlDB.Stats().OpenConnections)
				fmt.Printf("  Breaker:   %s\n", a.Breaker.State())
				return nil
			})
		},
	}
}
