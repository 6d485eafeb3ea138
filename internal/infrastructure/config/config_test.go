package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, ValidateConfig(cfg))
	assert.Equal(t, 60*time.Second, cfg.Idempotency.TTL)
	assert.Equal(t, 5000, cfg.Idempotency.MaxEntries)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Retry.BackoffBase)
	assert.Equal(t, 0.15, cfg.Game.Economy.FeeRate)
	assert.Equal(t, 0.10, cfg.Game.Economy.TaxRate)
	assert.Equal(t, 100, cfg.Game.Cargo.MaxAmount)
	assert.Equal(t, "fixed", cfg.Game.Travel.Policy)
}

func TestLoadConfigFromFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  type: sqlite
  path: test.db
server:
  address: ":9090"
game:
  travel:
    policy: formula
  economy:
    fee_rate: 0.2
`), 0o644))

	t.Setenv("SR_LOGGING_LEVEL", "debug")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "formula", cfg.Game.Travel.Policy)
	assert.Equal(t, 0.2, cfg.Game.Economy.FeeRate)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// untouched sections still get defaults
	assert.Equal(t, 1000, cfg.Game.Initial.Coins)
}

func TestValidateConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown database type", func(c *Config) { c.Database.Type = "mysql" }},
		{"unknown travel policy", func(c *Config) { c.Game.Travel.Policy = "teleport" }},
		{"fuel above tank", func(c *Config) { c.Game.Initial.Fuel = c.Game.Initial.MaxFuel + 1 }},
		{"unknown vessel type price", func(c *Config) { c.Game.VesselPrices["submarine"] = 10 }},
		{"unknown commodity curve", func(c *Config) { c.Game.PriceCurves["gold"] = PriceCurveConfig{ReferenceAmount: 1} }},
		{"file output without path", func(c *Config) { c.Logging.Output = "file" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, ValidateConfig(cfg))
		})
	}
}

func TestDefaultWorldBuildsRulesAndPorts(t *testing.T) {
	cfg := Default()
	world, err := LoadWorld("")
	require.NoError(t, err)

	rules, err := cfg.GameRules(world)
	require.NoError(t, err)

	producer, ok := rules.Recipes.ProducerOf(shared.FuelCommodity)
	require.True(t, ok)
	assert.Equal(t, "Vladivostok", producer)

	ports, err := world.BuildPorts(rules.Prices)
	require.NoError(t, err)
	require.Len(t, ports, 3)
	for _, p := range ports {
		for _, entry := range p.Stocks() {
			assert.Equal(t, rules.Prices.Price(entry.Commodity, entry.Amount), entry.Price)
		}
	}
}

func TestParseWorldRejectsInconsistentDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"duplicate port", `
ports:
  - name: A
  - name: A
`},
		{"recipe for unknown port", `
ports:
  - name: A
recipes:
  B:
    generates: oil
    requires: {materials: 1}
    output: 1
`},
		{"unknown commodity in stock", `
ports:
  - name: A
    stock:
      gold: 5
`},
		{"no ports", `ports: []`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWorld([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestPortWithoutCoordinatesUsesFallbackDistance(t *testing.T) {
	world, err := ParseWorld([]byte(`
ports:
  - name: Nowhere
  - name: Vladivostok
    lat: 43.1155
    lon: 131.8855
`))
	require.NoError(t, err)

	cfg := Default()
	rules, err := cfg.GameRules(world)
	require.NoError(t, err)

	ports, err := world.BuildPorts(rules.Prices)
	require.NoError(t, err)
	assert.Equal(t, cfg.Game.FallbackDistance, rules.Planner.Distance(ports[0], ports[1]))
}

func TestUserConfigRoundTrip(t *testing.T) {
	h, err := NewUserConfigHandlerAt(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, h.SetDefaultPlayer("3f8c1c9e-8d0a-4c55-bb8e-0d8f0c4c1a11"))
	cfg, err := h.Load()
	require.NoError(t, err)
	assert.Equal(t, "3f8c1c9e-8d0a-4c55-bb8e-0d8f0c4c1a11", cfg.DefaultPlayerID)

	require.NoError(t, h.SetDefaultPlayerNamed("3f8c1c9e-8d0a-4c55-bb8e-0d8f0c4c1a11", "alice"))
	cfg, err = h.Load()
	require.NoError(t, err)
	assert.Equal(t, "alice", cfg.DefaultUsername)
	assert.FileExists(t, h.GetConfigPath())

	require.NoError(t, h.ClearDefaultPlayer())
	cfg, err = h.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.DefaultPlayerID)
	assert.Empty(t, cfg.DefaultUsername)
}
