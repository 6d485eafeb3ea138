package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/searoutes-go/internal/domain/market"
	"github.com/andrescamacho/searoutes-go/internal/domain/navigation"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

//go:embed world.yaml
var defaultWorld []byte

// World is the static map: ports with their opening stock, the recipe of
// each port and the distance exception table
type World struct {
	Ports             []PortSeed             `yaml:"ports" validate:"required,min=1,dive"`
	Recipes           map[string]RecipeSeed  `yaml:"recipes" validate:"dive"`
	DistanceOverrides []DistanceOverrideSeed `yaml:"distance_overrides" validate:"dive"`
}

// PortSeed describes one port. Coordinates are optional.
type PortSeed struct {
	Name  string         `yaml:"name" validate:"required"`
	Lat   *float64       `yaml:"lat" validate:"omitempty,latitude"`
	Lon   *float64       `yaml:"lon" validate:"omitempty,longitude"`
	Stock map[string]int `yaml:"stock" validate:"dive,keys,commodity,endkeys,min=0"`
}

// RecipeSeed is the generation rule of one port
type RecipeSeed struct {
	Generates string         `yaml:"generates" validate:"commodity"`
	Requires  map[string]int `yaml:"requires" validate:"required,min=1,dive,keys,commodity,endkeys,min=1"`
	Output    int            `yaml:"output" validate:"min=1"`
}

// DistanceOverrideSeed pins the distance of one port pair
type DistanceOverrideSeed struct {
	From     string  `yaml:"from" validate:"required"`
	To       string  `yaml:"to" validate:"required"`
	Distance float64 `yaml:"distance" validate:"gt=0"`
}

// LoadWorld reads the world file at path, or the built-in world when path is empty
func LoadWorld(path string) (*World, error) {
	data := defaultWorld
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read world file: %w", err)
		}
	}
	return ParseWorld(data)
}

// ParseWorld decodes and validates a world document
func ParseWorld(data []byte) (*World, error) {
	var w World
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to parse world: %w", err)
	}
	if err := NewValidator().Validate(&w); err != nil {
		return nil, fmt.Errorf("invalid world: %w", err)
	}

	names := make(map[string]bool, len(w.Ports))
	for _, p := range w.Ports {
		if names[p.Name] {
			return nil, fmt.Errorf("invalid world: duplicate port %q", p.Name)
		}
		names[p.Name] = true
	}
	for name := range w.Recipes {
		if !names[name] {
			return nil, fmt.Errorf("invalid world: recipe for unknown port %q", name)
		}
	}
	return &w, nil
}

// RuleBook converts the recipes into domain generation rules
func (w *World) RuleBook() (*market.RuleBook, error) {
	rules := make(map[string]market.GenerationRule, len(w.Recipes))
	for port, r := range w.Recipes {
		generates, err := shared.ParseCommodity(r.Generates)
		if err != nil {
			return nil, fmt.Errorf("recipe for %s: %w", port, err)
		}
		requires := make(map[shared.Commodity]int, len(r.Requires))
		for name, n := range r.Requires {
			c, err := shared.ParseCommodity(name)
			if err != nil {
				return nil, fmt.Errorf("recipe for %s: %w", port, err)
			}
			requires[c] = n
		}
		rules[port] = market.GenerationRule{Generates: generates, Requires: requires, Output: r.Output}
	}
	return market.NewRuleBook(rules)
}

// Overrides converts the distance exception table
func (w *World) Overrides() []navigation.DistanceOverride {
	out := make([]navigation.DistanceOverride, len(w.DistanceOverrides))
	for i, o := range w.DistanceOverrides {
		out[i] = navigation.DistanceOverride{From: o.From, To: o.To, Distance: o.Distance}
	}
	return out
}

// BuildPorts creates fresh port aggregates with opening stock priced on
// the given curves
func (w *World) BuildPorts(prices market.PriceBook) ([]*market.Port, error) {
	ports := make([]*market.Port, 0, len(w.Ports))
	for _, seed := range w.Ports {
		var coords *navigation.Coordinates
		if seed.Lat != nil && seed.Lon != nil {
			coords = &navigation.Coordinates{Lat: *seed.Lat, Lon: *seed.Lon}
		}
		port, err := market.NewPort(seed.Name, coords)
		if err != nil {
			return nil, err
		}
		for name, amount := range seed.Stock {
			c, err := shared.ParseCommodity(name)
			if err != nil {
				return nil, fmt.Errorf("stock of %s: %w", seed.Name, err)
			}
			if err := port.SetStock(c, amount, prices.Price(c, amount)); err != nil {
				return nil, err
			}
		}
		ports = append(ports, port)
	}
	return ports, nil
}
