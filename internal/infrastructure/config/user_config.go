package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const userConfigFile = "cli.yaml"

// UserConfig holds operator CLI preferences kept in ~/.searoutes/cli.yaml
type UserConfig struct {
	// Player used by vessel and ledger commands when --player is omitted
	DefaultPlayerID string `yaml:"default_player_id,omitempty"`
	// Username shown next to the default player in `config show`
	DefaultUsername string `yaml:"default_username,omitempty"`
}

// UserConfigHandler reads and writes the CLI preference file
type UserConfigHandler struct {
	path string
}

func NewUserConfigHandler() (*UserConfigHandler, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewUserConfigHandlerAt(filepath.Join(home, ".searoutes"))
}

// NewUserConfigHandlerAt keeps the preference file in dir, creating it if needed
func NewUserConfigHandlerAt(dir string) (*UserConfigHandler, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	return &UserConfigHandler{path: filepath.Join(dir, userConfigFile)}, nil
}

// Load returns an empty config when the file has never been written
func (h *UserConfigHandler) Load() (*UserConfig, error) {
	data, err := os.ReadFile(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &UserConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", h.path, err)
	}

	var cfg UserConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", h.path, err)
	}
	return &cfg, nil
}

func (h *UserConfigHandler) Save(cfg *UserConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode user config: %w", err)
	}
	// Replaced atomically through a temp file
	tmp := h.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}
	return os.Rename(tmp, h.path)
}

func (h *UserConfigHandler) update(mutate func(*UserConfig)) error {
	cfg, err := h.Load()
	if err != nil {
		return err
	}
	mutate(cfg)
	return h.Save(cfg)
}

// SetDefaultPlayer remembers the player id used when --player is omitted
func (h *UserConfigHandler) SetDefaultPlayer(playerID string) error {
	return h.update(func(cfg *UserConfig) {
		cfg.DefaultPlayerID = playerID
		cfg.DefaultUsername = ""
	})
}

// SetDefaultPlayerNamed is SetDefaultPlayer plus the username for display
func (h *UserConfigHandler) SetDefaultPlayerNamed(playerID, username string) error {
	return h.update(func(cfg *UserConfig) {
		cfg.DefaultPlayerID = playerID
		cfg.DefaultUsername = username
	})
}

func (h *UserConfigHandler) ClearDefaultPlayer() error {
	return h.update(func(cfg *UserConfig) {
		cfg.DefaultPlayerID = ""
		cfg.DefaultUsername = ""
	})
}

func (h *UserConfigHandler) GetConfigPath() string {
	return h.path
}
