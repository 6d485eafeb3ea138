package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	playerFlag string
	verbose    bool
)

// NewRootCommand creates the root command for the operator CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "searoutes",
		Short: "Sea Routes operator CLI",
		Long: `Operator tools for a Sea Routes world.

The CLI talks to the game database directly using the same configuration
as the server (config.yaml, SR_* environment variables, DATABASE_URL).

Examples:
  searoutes migrate
  searoutes seed
  searoutes sweep
  searoutes ports list
  searoutes player register captain
  searoutes vessels list --player <player-id>
  searoutes rating --type weekly`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: search ./, ./configs, /etc/searoutes)")
	rootCmd.PersistentFlags().StringVar(&playerFlag, "player", "",
		"Player ID (defaults to the one set with 'config set-player')")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewMigrateCommand())
	rootCmd.AddCommand(NewSeedCommand())
	rootCmd.AddCommand(NewSweepCommand())
	rootCmd.AddCommand(NewPortsCommand())
	rootCmd.AddCommand(NewPlayerCommand())
	rootCmd.AddCommand(NewVesselsCommand())
	rootCmd.AddCommand(NewLedgerCommand())
	rootCmd.AddCommand(NewRatingCommand())
	rootCmd.AddCommand(NewHealthCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
