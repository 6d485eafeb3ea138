package config

import (
	"fmt"

	appVessel "github.com/andrescamacho/searoutes-go/internal/application/vessel"
	"github.com/andrescamacho/searoutes-go/internal/domain/economy"
	"github.com/andrescamacho/searoutes-go/internal/domain/market"
	"github.com/andrescamacho/searoutes-go/internal/domain/navigation"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/internal/domain/vessel"
)

// PriceBook converts the configured demand curves
func (g *GameConfig) PriceBook() (market.PriceBook, error) {
	book := make(market.PriceBook, len(g.PriceCurves))
	for name, c := range g.PriceCurves {
		commodity, err := shared.ParseCommodity(name)
		if err != nil {
			return nil, err
		}
		book[commodity] = market.PriceCurve{
			ReferenceAmount: c.ReferenceAmount,
			MinPrice:        c.MinPrice,
			MaxPrice:        c.MaxPrice,
			MinAmount:       c.MinAmount,
			CeilingPrice:    c.CeilingPrice,
		}
	}
	if err := book.Validate(); err != nil {
		return nil, err
	}
	return book, nil
}

// DurationSettings converts the travel section for navigation.NewDurationPolicy
func (g *GameConfig) DurationSettings() (navigation.DurationSettings, error) {
	speeds, err := byVesselType(g.Travel.Speeds)
	if err != nil {
		return navigation.DurationSettings{}, err
	}
	return navigation.DurationSettings{
		Policy:       g.Travel.Policy,
		Fixed:        g.Travel.FixedDuration,
		Speeds:       speeds,
		DefaultSpeed: g.Travel.DefaultSpeed,
		HourScale:    g.Travel.HourScale,
		Minimum:      g.Travel.Minimum,
	}, nil
}

// GameRules assembles everything the vessel handlers consult
func (c *Config) GameRules(world *World) (*appVessel.GameRules, error) {
	g := &c.Game

	prices, err := g.PriceBook()
	if err != nil {
		return nil, fmt.Errorf("price curves: %w", err)
	}
	recipes, err := world.RuleBook()
	if err != nil {
		return nil, err
	}

	rates, err := byVesselType(g.Fuel.Rates)
	if err != nil {
		return nil, fmt.Errorf("fuel rates: %w", err)
	}
	settings, err := g.DurationSettings()
	if err != nil {
		return nil, fmt.Errorf("travel speeds: %w", err)
	}
	duration, err := navigation.NewDurationPolicy(settings)
	if err != nil {
		return nil, err
	}
	planner := navigation.NewTripPlanner(
		navigation.NewDistanceCalculator(g.FallbackDistance, world.Overrides()),
		navigation.NewFuelCalculator(rates, g.Fuel.DefaultRate, g.Fuel.MinFuel, g.Fuel.CargoSurcharge),
		duration,
	)

	basePrices := make(map[shared.VesselType]int, len(g.VesselPrices))
	for name, price := range g.VesselPrices {
		t, err := shared.ParseVesselType(name)
		if err != nil {
			return nil, err
		}
		basePrices[t] = price
	}

	return &appVessel.GameRules{
		Planner: planner,
		Prices:  prices,
		Recipes: recipes,
		Settlement: economy.SettlementPolicy{
			FeeRate:            g.Economy.FeeRate,
			TaxRate:            g.Economy.TaxRate,
			DistanceBonusPerNM: g.Economy.DistanceBonusPerNM,
			CrewBonusPerLevel:  g.Economy.CrewBonusPerLevel,
		},
		Pricing:     economy.VesselPricing{BasePrices: basePrices},
		Tow:         economy.TowPolicy{RatePerNM: g.Tow.RatePerNM, MinFee: g.Tow.MinFee},
		Repair:      economy.RepairPolicy{CostPerHealth: g.Economy.RepairCostPerHealth},
		Upgrade:     economy.UpgradePolicy{BaseCost: g.Economy.UpgradeBaseCost},
		CargoLimits: vessel.CargoLimits{Min: g.Cargo.MinAmount, Max: g.Cargo.MaxAmount},
		Initial: appVessel.InitialVessel{
			Fuel:      g.Initial.Fuel,
			MaxFuel:   g.Initial.MaxFuel,
			Health:    g.Initial.Health,
			MaxHealth: g.Initial.MaxHealth,
			CrewLevel: g.Initial.CrewLevel,
		},
	}, nil
}

func byVesselType(in map[string]float64) (map[shared.VesselType]float64, error) {
	out := make(map[shared.VesselType]float64, len(in))
	for name, v := range in {
		t, err := shared.ParseVesselType(name)
		if err != nil {
			return nil, err
		}
		out[t] = v
	}
	return out, nil
}
