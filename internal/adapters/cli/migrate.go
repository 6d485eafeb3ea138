package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/searoutes-go/internal/app"
)

// NewMigrateCommand creates the migrate command
func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				if err := a.Migrate(); err != nil {
					return fmt.Errorf("failed to migrate: %w", err)
				}
				fmt.Println("✓ Schema is up to date")
				return nil
			})
		},
	}
}

// NewSeedCommand creates the seed command
func NewSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the world's ports",
		Long: `Create every port of the world file that does not exist yet.

Existing ports keep their stock, so seeding twice is harmless.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				if err := a.Migrate(); err != nil {
					return fmt.Errorf("failed to migrate: %w", err)
				}
				result, err := a.Seed(ctx)
				if err != nil {
					return fmt.Errorf("failed to seed ports: %w", err)
				}

				fmt.Printf("✓ Seeded %d ports (%d already present)\n", len(result.Created), len(result.Skipped))
				for _, name := range result.Created {
					fmt.Printf("  + %s\n", name)
				}
				return nil
			})
		},
	}
}
