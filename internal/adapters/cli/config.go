package cli

import (
	"context"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/searoutes-go/internal/app"
	playerQueries "github.com/andrescamacho/searoutes-go/internal/application/player/queries"
	"github.com/andrescamacho/searoutes-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage Sea Routes configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (SR_* prefix, DATABASE_URL)
2. Config file (config.yaml)
3. Default values

User preferences (default player) are stored in ~/.searoutes/config.json

Examples:
  searoutes config show
  searoutes config set-player --player <player-id>
  searoutes config clear-player`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetPlayerCommand())
	cmd.AddCommand(newConfigClearPlayerCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Printf("Warning: Failed to load config: %v\n", err)
				fmt.Println("Using default configuration.")
				cfg = config.Default()
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			userCfg, err := userConfigHandler.Load()
			if err != nil {
				fmt.Printf("Warning: Failed to load user config: %v\n\n", err)
				userCfg = &config.UserConfig{}
			}

			fmt.Println("Sea Routes Configuration")
			fmt.Println("========================")

			fmt.Println("User Preferences:")
			fmt.Printf("  Config file:      %s\n", userConfigHandler.GetConfigPath())
			if userCfg.DefaultPlayerID != "" {
				fmt.Printf("  Default Player:   %s %s\n", userCfg.DefaultPlayerID, userCfg.DefaultUsername)
			} else {
				fmt.Printf("  Default Player:   (not set)\n")
			}

			fmt.Println("\nDatabase:")
			fmt.Printf("  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.Type == "sqlite":
				fmt.Printf("  Path:             %s\n", cfg.Database.Path)
			case cfg.Database.URL != "":
				fmt.Printf("  URL:              %s\n", maskPassword(cfg.Database.URL))
			default:
				fmt.Printf("  Host:             %s\n", cfg.Database.Host)
				fmt.Printf("  Port:             %d\n", cfg.Database.Port)
				fmt.Printf("  Database:         %s\n", cfg.Database.Name)
				fmt.Printf("  User:             %s\n", cfg.Database.User)
				fmt.Printf("  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)
			}

			fmt.Println("\nServer:")
			fmt.Printf("  Address:          %s\n", cfg.Server.Address)
			fmt.Printf("  Rate Limit:       %.1f req/s (burst: %d)\n", cfg.Server.RateLimit.Requests, cfg.Server.RateLimit.Burst)
			fmt.Printf("  Idempotency TTL:  %s (max %d entries)\n", cfg.Idempotency.TTL, cfg.Idempotency.MaxEntries)

			fmt.Println("\nStore Retry:")
			fmt.Printf("  Max Attempts:     %d\n", cfg.Retry.MaxAttempts)
			fmt.Printf("  Backoff Base:     %s\n", cfg.Retry.BackoffBase)
			fmt.Printf("  Breaker:          %d failures, %s cooldown\n", cfg.Retry.BreakerThreshold, cfg.Retry.BreakerCooldown)

			fmt.Println("\nTravel Sweeper:")
			fmt.Printf("  Enabled:          %t\n", cfg.Sweeper.Enabled)
			fmt.Printf("  Schedule:         %s\n", cfg.Sweeper.Schedule)

			fmt.Println("\nLogging:")
			fmt.Printf("  Level:            %s\n", cfg.Logging.Level)
			fmt.Printf("  Format:           %s\n", cfg.Logging.Format)
			fmt.Printf("  Output:           %s\n", cfg.Logging.Output)

			return nil
		},
	}
}

func newConfigSetPlayerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-player",
		Short: "Set default player",
		Long: `Set the player used when --player is omitted.

The player must exist in the database.

Example:
  searoutes config set-player --player 6f1c1f8e-3b7a-4d55-9a4e-2f0c5c1d9e11`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if playerFlag == "" {
				return fmt.Errorf("--player flag is required")
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}

			return withApp(func(ctx context.Context, a *app.App) error {
				resp, err := a.Mediator.Send(ctx, &playerQueries.GetPlayerQuery{PlayerID: playerFlag})
				if err != nil {
					return fmt.Errorf("player %s not found: %w", playerFlag, err)
				}
				player := resp.(*playerQueries.PlayerDTO)

				if err := userConfigHandler.SetDefaultPlayerNamed(player.ID, player.Username); err != nil {
					return fmt.Errorf("failed to set default player: %w", err)
				}

				fmt.Println("✓ Default player set successfully")
				fmt.Printf("  Player ID: %s\n", player.ID)
				fmt.Printf("  Username:  %s\n", player.Username)
				return nil
			})
		},
	}
}

func newConfigClearPlayerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-player",
		Short: "Clear default player setting",
		RunE: func(cmd *cobra.Command, args []string) error {
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}

			if err := userConfigHandler.ClearDefaultPlayer(); err != nil {
				return fmt.Errorf("failed to clear default player: %w", err)
			}

			fmt.Println("✓ Default player cleared")
			return nil
		},
	}
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "****")
	}
	return u.String()
}
