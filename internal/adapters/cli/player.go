package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/searoutes-go/internal/app"
	playerCommands "github.com/andrescamacho/searoutes-go/internal/application/player/commands"
	playerQueries "github.com/andrescamacho/searoutes-go/internal/application/player/queries"
	"github.com/andrescamacho/searoutes-go/internal/infrastructure/config"
)

// NewPlayerCommand creates the player command with subcommands
func NewPlayerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Manage players",
		Long: `Register players and inspect their coins and earnings.

Examples:
  searoutes player register captain
  searoutes player info --player <player-id>
  searoutes player info --username captain`,
	}

	cmd.AddCommand(newPlayerRegisterCommand())
	cmd.AddCommand(newPlayerInfoCommand())

	return cmd
}

func newPlayerRegisterCommand() *cobra.Command {
	var setDefault bool

	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Register a new player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				resp, err := a.Mediator.Send(ctx, &playerCommands.RegisterPlayerCommand{Username: args[0]})
				if err != nil {
					return fmt.Errorf("failed to register player: %w", err)
				}
				result := resp.(*playerCommands.RegisterPlayerResponse)

				fmt.Println("✓ Player registered successfully")
				fmt.Printf("  Username:  %s\n", result.Username)
				fmt.Printf("  Player ID: %s\n", result.PlayerID)
				fmt.Printf("  Coins:     %d\n", result.Coins)

				if setDefault {
					return setDefaultPlayer(result.PlayerID, result.Username)
				}
				fmt.Println("\nSet as default player with: searoutes config set-player --player", result.PlayerID)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&setDefault, "set-default", false, "Use this player when --player is omitted")

	return cmd
}

func newPlayerInfoCommand() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show coins and earnings of a player",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := &playerQueries.GetPlayerQuery{Username: username}
			if username == "" {
				id, err := resolvePlayerID()
				if err != nil {
					return err
				}
				query.PlayerID = id
			}

			return withApp(func(ctx context.Context, a *app.App) error {
				resp, err := a.Mediator.Send(ctx, query)
				if err != nil {
					return err
				}
				player := resp.(*playerQueries.PlayerDTO)

				resp, err = a.Mediator.Send(ctx, &playerQueries.GetEarningsQuery{PlayerID: player.ID})
				if err != nil {
					return err
				}
				earnings := resp.(*playerQueries.EarningsDTO)

				fmt.Printf("Player: %s\n", player.Username)
				fmt.Println("===========================")
				fmt.Printf("ID:               %s\n", player.ID)
				fmt.Printf("Coins:            %d\n", player.Coins)
				fmt.Printf("Total Earnings:   %d\n", earnings.Total)
				fmt.Printf("Weekly Earnings:  %d (week of %s)\n", earnings.Weekly, earnings.WeekStart.Format("2006-01-02"))
				fmt.Printf("Registered:       %s\n", player.CreatedAt.Format("2006-01-02 15:04:05"))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Look the player up by username")

	return cmd
}

func setDefaultPlayer(id, username string) error {
	userConfigHandler, err := config.NewUserConfigHandler()
	if err != nil {
		return fmt.Errorf("failed to create user config handler: %w", err)
	}
	if err := userConfigHandler.SetDefaultPlayerNamed(id, username); err != nil {
		return fmt.Errorf("failed to set default player: %w", err)
	}
	fmt.Println("✓ Set as default player")
	return nil
}
