package vessel

import (
	"github.com/andrescamacho/searoutes-go/internal/domain/economy"
	"github.com/andrescamacho/searoutes-go/internal/domain/market"
	"github.com/andrescamacho/searoutes-go/internal/domain/navigation"
	vesselDomain "github.com/andrescamacho/searoutes-go/internal/domain/vessel"
)

// InitialVessel holds the starting state of a purchased vessel
type InitialVessel struct {
	Fuel      int
	MaxFuel   int
	Health    int
	MaxHealth int
	CrewLevel int
}

// GameRules bundles every tunable the vessel handlers consult. Built once
// from configuration in main and shared read-only.
type GameRules struct {
	Planner     *navigation.TripPlanner
	Prices      market.PriceBook
	Recipes     *market.RuleBook
	Settlement  economy.SettlementPolicy
	Pricing     economy.VesselPricing
	Tow         economy.TowPolicy
	Repair      economy.RepairPolicy
	Upgrade     economy.UpgradePolicy
	CargoLimits vesselDomain.CargoLimits
	Initial     InitialVessel
}
