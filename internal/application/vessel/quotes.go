package vessel

import (
	"context"
	"fmt"

	"github.com/andrescamacho/searoutes-go/internal/domain/market"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	vesselDomain "github.com/andrescamacho/searoutes-go/internal/domain/vessel"
)

// TowTarget names the producer a tow heads for
type TowTarget string

const (
	// TowToFuel takes a stranded vessel to the fuel producer and drains its tank
	TowToFuel TowTarget = "fuel"
	// TowToMaterials takes a vessel to the materials producer for repairs
	TowToMaterials TowTarget = "materials"
)

// ParseTowTarget accepts the empty string as TowToFuel
func ParseTowTarget(s string) (TowTarget, error) {
	switch TowTarget(s) {
	case "", TowToFuel:
		return TowToFuel, nil
	case TowToMaterials:
		return TowToMaterials, nil
	}
	return "", shared.NewValidationError("target", fmt.Sprintf("unknown tow target %q", s))
}

func (t TowTarget) commodity() shared.Commodity {
	if t == TowToMaterials {
		return shared.CommodityMaterials
	}
	return shared.FuelCommodity
}

// TowQuote is what a tow would cost right now
type TowQuote struct {
	Target      TowTarget
	Destination *market.Port
	Distance    float64
	Fee         int
}

// QuoteTow resolves the producer the target names and prices the tow there.
// The tow command and the tow-info query both use it so they agree on the fee.
func (r *GameRules) QuoteTow(ctx context.Context, ports market.PortRepository, v *vesselDomain.Vessel, target TowTarget) (*TowQuote, error) {
	target, err := ParseTowTarget(string(target))
	if err != nil {
		return nil, err
	}
	destination, err := r.producerPort(ctx, ports, target.commodity())
	if err != nil {
		return nil, err
	}
	if err := v.ValidateTow(destination.ID()); err != nil {
		return nil, err
	}
	current, err := ports.FindByID(ctx, v.CurrentPortID())
	if err != nil {
		return nil, err
	}

	distance := r.Planner.Distance(current, destination)
	return &TowQuote{
		Target:      target,
		Destination: destination,
		Distance:    distance,
		Fee:         r.Tow.Fee(distance),
	}, nil
}

// FuelPort returns the port that produces the fuel commodity
func (r *GameRules) FuelPort(ctx context.Context, ports market.PortRepository) (*market.Port, error) {
	return r.producerPort(ctx, ports, shared.FuelCommodity)
}

func (r *GameRules) producerPort(ctx context.Context, ports market.PortRepository, c shared.Commodity) (*market.Port, error) {
	name, ok := r.Recipes.ProducerOf(c)
	if !ok {
		code := shared.CodeTowNotAvailable
		if c == shared.FuelCommodity {
			code = shared.CodeRefuelNotAvailable
		}
		return nil, shared.NewRuleViolation(code, fmt.Sprintf("no port produces %s", c))
	}
	return ports.FindByName(ctx, name)
}

// StartingPort is where a new vessel of the given type is delivered: the
// producer of its commodity, or the first port by name
func (r *GameRules) StartingPort(ctx context.Context, ports market.PortRepository, vesselType shared.VesselType) (*market.Port, error) {
	if name, ok := r.Recipes.ProducerOf(vesselType.Commodity()); ok {
		port, err := ports.FindByName(ctx, name)
		if err == nil {
			return port, nil
		}
		if !shared.IsNotFound(err) {
			return nil, err
		}
	}

	all, err := ports.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, shared.NewNotFoundError("port", "any")
	}
	return all[0], nil
}
