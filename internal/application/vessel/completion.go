package vessel

import (
	"context"
	"fmt"

	"github.com/andrescamacho/searoutes-go/internal/adapters/metrics"
	"github.com/andrescamacho/searoutes-go/internal/application/common"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	vesselDomain "github.com/andrescamacho/searoutes-go/internal/domain/vessel"
)

// Arrival sources reported in logs and metrics
const (
	ArrivalLazy    = "lazy"
	ArrivalSweeper = "sweeper"
)

// TravelCompleter applies the single arrival rule. Every vessel-touching
// handler goes through Load so a due arrival is materialised before any
// other transition is validated.
type TravelCompleter struct {
	vessels vesselDomain.VesselRepository
	clock   shared.Clock
}

func NewTravelCompleter(vessels vesselDomain.VesselRepository, clock shared.Clock) *TravelCompleter {
	return &TravelCompleter{vessels: vessels, clock: shared.ClockOrDefault(clock)}
}

// Load fetches a vessel and completes its travel when due
func (c *TravelCompleter) Load(ctx context.Context, vesselID string) (*vesselDomain.Vessel, error) {
	v, _, err := c.LoadAndReport(ctx, vesselID)
	return v, err
}

// LoadAndReport is Load that also tells whether an arrival was applied
func (c *TravelCompleter) LoadAndReport(ctx context.Context, vesselID string) (*vesselDomain.Vessel, bool, error) {
	v, err := c.vessels.FindByID(ctx, vesselID)
	if err != nil {
		return nil, false, err
	}
	completed, err := c.CompleteIfDue(ctx, v, ArrivalLazy)
	if err != nil {
		return nil, false, err
	}
	if !completed && v.IsTraveling() && v.IsArrivalDue(c.clock.Now()) {
		// Someone else docked it between our read and the update
		v, err = c.vessels.FindByID(ctx, vesselID)
		if err != nil {
			return nil, false, err
		}
	}
	return v, completed, nil
}

// CompleteIfDue completes the travel when its end has passed. The store is
// updated conditionally, so only the caller that actually docks the vessel
// gets true; a redundant call from the sweeper or a read returns false and
// writes nothing. v is only updated in memory when the arrival was applied.
func (c *TravelCompleter) CompleteIfDue(ctx context.Context, v *vesselDomain.Vessel, source string) (bool, error) {
	now := c.clock.Now()
	if !v.IsArrivalDue(now) {
		return false, nil
	}

	destination := v.Travel().DestinationPortID
	applied, err := c.vessels.CompleteArrival(ctx, v.ID(), now)
	if err != nil {
		return false, fmt.Errorf("failed to save arrival of vessel %s: %w", v.ID(), err)
	}
	if !applied {
		return false, nil
	}
	v.CompleteTravel(now)

	metrics.RecordArrival(source)
	common.LoggerFromContext(ctx).Log(common.LevelInfo, "Vessel arrived", map[string]interface{}{
		"vessel_id": v.ID(),
		"port_id":   destination,
		"source":    source,
	})
	return true, nil
}
