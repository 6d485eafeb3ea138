package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/andrescamacho/searoutes-go/internal/app"
	"github.com/andrescamacho/searoutes-go/internal/application/common"
	"github.com/andrescamacho/searoutes-go/internal/infrastructure/config"
	"github.com/andrescamacho/searoutes-go/internal/infrastructure/logging"
)

// withApp builds the world, runs fn and closes the store. Logs go to
// stderr so command output stays clean.
func withApp(fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logCfg := cfg.Logging
	logCfg.Output = "stderr"
	logCfg.Format = "text"
	logCfg.Level = "warn"
	if verbose {
		logCfg.Level = "debug"
	}
	log, closer, err := logging.New(logCfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	a, err := app.Build(cfg, log, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	if cfg.Database.AutoMigrate {
		if err := a.Migrate(); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}

	ctx := common.WithLogger(context.Background(), logging.NewContextLogger(log))
	return fn(ctx, a)
}

// resolvePlayerID returns --player, or the default player from the user config
func resolvePlayerID() (string, error) {
	if playerFlag != "" {
		return playerFlag, nil
	}

	userConfigHandler, err := config.NewUserConfigHandler()
	if err != nil {
		return "", fmt.Errorf("no player specified and failed to load user config: %w", err)
	}
	userCfg, err := userConfigHandler.Load()
	if err != nil {
		return "", fmt.Errorf("no player specified and failed to load user config: %w", err)
	}
	if userCfg.DefaultPlayerID != "" {
		return userCfg.DefaultPlayerID, nil
	}

	return "", fmt.Errorf("no player specified: use --player, or set a default with 'searoutes config set-player'")
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

// prettyPrint formats JSON for display
func prettyPrint(v interface{}) string {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(bytes)
}
