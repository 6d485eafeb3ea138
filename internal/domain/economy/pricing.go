package economy

import (
	"fmt"
	"math"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// VesselPricing quotes progressive purchase prices: every vessel of the same
// type already owned multiplies the base price by ten
type VesselPricing struct {
	BasePrices map[shared.VesselType]int
}

func (p VesselPricing) Price(vesselType shared.VesselType, owned int) (int, error) {
	base, ok := p.BasePrices[vesselType]
	if !ok {
		return 0, shared.NewRuleViolation(shared.CodeInvalidVesselType, fmt.Sprintf("no price for vessel type %q", vesselType))
	}
	if owned < 0 {
		owned = 0
	}
	price := float64(base) * math.Pow(10, float64(owned))
	if price > math.MaxInt32 {
		return 0, shared.NewRuleViolation(shared.CodeInvalidAmount, "vessel price exceeds the coin limit")
	}
	return int(price), nil
}

// TowPolicy prices an emergency tow
type TowPolicy struct {
	RatePerNM float64
	MinFee    int
}

// Fee is max(round(distance x rate), minimum)
func (p TowPolicy) Fee(distance float64) int {
	fee := int(math.Round(distance * p.RatePerNM))
	if fee < p.MinFee {
		return p.MinFee
	}
	return fee
}

// UpgradePolicy prices crew training: leaving level n costs BaseCost x n
type UpgradePolicy struct {
	BaseCost int
}

func (p UpgradePolicy) Cost(level int) int {
	if level < 1 {
		level = 1
	}
	return p.BaseCost * level
}

// RepairPolicy prices hull repairs
type RepairPolicy struct {
	CostPerHealth int
}

func (p RepairPolicy) Cost(amount int) int {
	return amount * p.CostPerHealth
}
