package vessel

import (
	"context"
	"time"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// VesselRepository defines vessel persistence operations
type VesselRepository interface {
	FindByID(ctx context.Context, id string) (*Vessel, error)
	FindByOwner(ctx context.Context, ownerID shared.PlayerID) ([]*Vessel, error)
	CountByOwnerAndType(ctx context.Context, ownerID shared.PlayerID, vesselType shared.VesselType) (int, error)

	// FindTravelingDueBy lists vessels whose travel end is at or before ts
	FindTravelingDueBy(ctx context.Context, ts time.Time) ([]*Vessel, error)

	// CompleteArrival docks the vessel at its destination only if its
	// travel is still stored as due by now. It reports false when the row
	// was already completed by another writer, leaving every other column
	// untouched.
	CompleteArrival(ctx context.Context, id string, now time.Time) (bool, error)

	Save(ctx context.Context, v *Vessel) error
}
