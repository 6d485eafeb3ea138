package navigation

import (
	"math"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// FuelCalculator prices a voyage in fuel units.
//
//	fuel = round(max(distance * rate[type], minFuel) * (loaded ? cargoSurcharge : 1))
type FuelCalculator struct {
	rates          map[shared.VesselType]float64
	defaultRate    float64
	minFuel        float64
	cargoSurcharge float64
}

// NewFuelCalculator creates a calculator. Unknown vessel types burn defaultRate.
func NewFuelCalculator(rates map[shared.VesselType]float64, defaultRate float64, minFuel int, cargoSurcharge float64) *FuelCalculator {
	if cargoSurcharge < 1 {
		cargoSurcharge = 1
	}
	copied := make(map[shared.VesselType]float64, len(rates))
	for k, v := range rates {
		copied[k] = v
	}
	return &FuelCalculator{
		rates:          copied,
		defaultRate:    defaultRate,
		minFuel:        float64(minFuel),
		cargoSurcharge: cargoSurcharge,
	}
}

// Rate returns the per-nautical-mile burn for a vessel type
func (c *FuelCalculator) Rate(vesselType shared.VesselType) float64 {
	if r, ok := c.rates[vesselType]; ok && r > 0 {
		return r
	}
	return c.defaultRate
}

// Required returns the fuel units needed to cover distance
func (c *FuelCalculator) Required(vesselType shared.VesselType, distance float64, loaded bool) int {
	cost := math.Max(distance*c.Rate(vesselType), c.minFuel)
	if loaded {
		cost *= c.cargoSurcharge
	}
	return int(math.Round(cost))
}
