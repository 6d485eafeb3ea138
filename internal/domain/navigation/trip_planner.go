package navigation

import (
	"time"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// TripPlan is everything a voyage costs before it starts
type TripPlan struct {
	Distance float64
	FuelCost int
	Duration time.Duration
}

// TripPlanner combines distance, fuel and duration into one calculation
// so sending, previewing and towing agree on the numbers.
type TripPlanner struct {
	distances *DistanceCalculator
	fuel      *FuelCalculator
	duration  DurationPolicy
}

// NewTripPlanner creates a new trip planner
func NewTripPlanner(distances *DistanceCalculator, fuel *FuelCalculator, duration DurationPolicy) *TripPlanner {
	return &TripPlanner{
		distances: distances,
		fuel:      fuel,
		duration:  duration,
	}
}

// Plan computes the cost of sailing from one location to another
func (p *TripPlanner) Plan(vesselType shared.VesselType, from, to Location, loaded bool) TripPlan {
	distance := p.distances.Between(from, to)
	return TripPlan{
		Distance: distance,
		FuelCost: p.fuel.Required(vesselType, distance, loaded),
		Duration: p.duration.Duration(vesselType, distance),
	}
}

// Distance exposes the underlying distance lookup
func (p *TripPlanner) Distance(from, to Location) float64 {
	return p.distances.Between(from, to)
}
