package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/internal/domain/vessel"
	"github.com/andrescamacho/searoutes-go/internal/infrastructure/database"
)

// GormVesselRepository implements VesselRepository using GORM
type GormVesselRepository struct {
	db    *gorm.DB
	retry *database.Retrier
}

// NewGormVesselRepository creates a new GORM vessel repository
func NewGormVesselRepository(db *gorm.DB, retry *database.Retrier) *GormVesselRepository {
	if retry == nil {
		retry = database.NewNoopRetrier()
	}
	return &GormVesselRepository{db: db, retry: retry}
}

// FindByID retrieves a vessel by ID
func (r *GormVesselRepository) FindByID(ctx context.Context, id string) (*vessel.Vessel, error) {
	return database.Retry(ctx, r.retry, "find_vessel", func(ctx context.Context) (*vessel.Vessel, error) {
		var model VesselModel
		if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
			return nil, mapNotFound(err, "vessel", id)
		}
		return modelToVessel(&model)
	})
}

// FindByOwner lists a player's vessels, oldest first
func (r *GormVesselRepository) FindByOwner(ctx context.Context, ownerID shared.PlayerID) ([]*vessel.Vessel, error) {
	return r.findMany(ctx, "list_vessels", func(q *gorm.DB) *gorm.DB {
		return q.Where("owner_id = ?", ownerID.Value()).Order("created_at ASC, id ASC")
	})
}

// CountByOwnerAndType counts the vessels of one type a player owns
func (r *GormVesselRepository) CountByOwnerAndType(ctx context.Context, ownerID shared.PlayerID, vesselType shared.VesselType) (int, error) {
	return database.Retry(ctx, r.retry, "count_vessels", func(ctx context.Context) (int, error) {
		var count int64
		err := r.db.WithContext(ctx).Model(&VesselModel{}).
			Where("owner_id = ? AND type = ?", ownerID.Value(), vesselType.String()).
			Count(&count).Error
		if err != nil {
			return 0, fmt.Errorf("failed to count vessels: %w", err)
		}
		return int(count), nil
	})
}

// FindTravelingDueBy lists vessels whose travel ends at or before ts
func (r *GormVesselRepository) FindTravelingDueBy(ctx context.Context, ts time.Time) ([]*vessel.Vessel, error) {
	return r.findMany(ctx, "list_due_travels", func(q *gorm.DB) *gorm.DB {
		return q.Where("travel_ends_at IS NOT NULL AND travel_ends_at <= ?", ts.UTC()).Order("travel_ends_at ASC")
	})
}

// CompleteArrival moves a due vessel to its destination with a single
// conditional update, so a stale in-memory copy never rewrites cargo or
// fuel changed since it was read
func (r *GormVesselRepository) CompleteArrival(ctx context.Context, id string, now time.Time) (bool, error) {
	return database.Retry(ctx, r.retry, "complete_arrival", func(ctx context.Context) (bool, error) {
		result := r.db.WithContext(ctx).Model(&VesselModel{}).
			Where("id = ? AND travel_ends_at IS NOT NULL AND travel_ends_at <= ?", id, now.UTC()).
			Updates(map[string]interface{}{
				"current_port_id":     gorm.Expr("destination_port_id"),
				"destination_port_id": nil,
				"travel_started_at":   nil,
				"travel_ends_at":      nil,
				"updated_at":          now.UTC(),
			})
		if result.Error != nil {
			return false, fmt.Errorf("failed to complete arrival: %w", result.Error)
		}
		return result.RowsAffected == 1, nil
	})
}

// Save creates or fully replaces the vessel row
func (r *GormVesselRepository) Save(ctx context.Context, v *vessel.Vessel) error {
	model := vesselToModel(v)
	return r.retry.Do(ctx, "save_vessel", func(ctx context.Context) error {
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).
			Create(model).Error
		if err != nil {
			return fmt.Errorf("failed to save vessel: %w", err)
		}
		return nil
	})
}

func (r *GormVesselRepository) findMany(ctx context.Context, operation string, scope func(*gorm.DB) *gorm.DB) ([]*vessel.Vessel, error) {
	return database.Retry(ctx, r.retry, operation, func(ctx context.Context) ([]*vessel.Vessel, error) {
		var models []VesselModel
		if err := scope(r.db.WithContext(ctx)).Find(&models).Error; err != nil {
			return nil, fmt.Errorf("failed to list vessels: %w", err)
		}

		vessels := make([]*vessel.Vessel, 0, len(models))
		for i := range models {
			v, err := modelToVessel(&models[i])
			if err != nil {
				return nil, err
			}
			vessels = append(vessels, v)
		}
		return vessels, nil
	})
}

func vesselToModel(v *vessel.Vessel) *VesselModel {
	stats := v.Stats()
	model := &VesselModel{
		ID:               v.ID(),
		OwnerID:          v.OwnerID().Value(),
		Name:             v.Name(),
		Type:             v.Type().String(),
		CurrentPortID:    v.CurrentPortID(),
		Fuel:             v.Fuel().Current,
		MaxFuel:          v.Fuel().Capacity,
		Health:           v.Health().Current,
		MaxHealth:        v.Health().Max,
		CrewLevel:        v.CrewLevel(),
		DistanceTraveled: stats.DistanceTraveled,
		TripsCompleted:   stats.TripsCompleted,
		TotalProfit:      stats.TotalProfit,
		TotalCosts:       stats.TotalCosts,
		CreatedAt:        v.CreatedAt().UTC(),
		UpdatedAt:        v.UpdatedAt().UTC(),
	}

	if cargo := v.Cargo(); cargo != nil {
		commodity := cargo.Commodity.String()
		amount, price, port := cargo.Amount, cargo.PurchasePricePerUnit, cargo.PurchasePortID
		model.CargoCommodity = &commodity
		model.CargoAmount = &amount
		model.CargoPurchasePrice = &price
		model.CargoPurchasePort = &port
	}

	if travel := v.Travel(); travel != nil {
		dest := travel.DestinationPortID
		started, ends := travel.StartedAt.UTC(), travel.EndsAt.UTC()
		model.DestinationPortID = &dest
		model.TravelStartedAt = &started
		model.TravelEndsAt = &ends
	}

	return model
}

func modelToVessel(model *VesselModel) (*vessel.Vessel, error) {
	ownerID, err := shared.NewPlayerID(model.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner ID in database: %w", err)
	}
	vesselType, err := shared.ParseVesselType(model.Type)
	if err != nil {
		return nil, fmt.Errorf("invalid vessel type in database: %w", err)
	}
	fuel, err := shared.NewFuel(model.Fuel, model.MaxFuel)
	if err != nil {
		return nil, fmt.Errorf("invalid fuel in database: %w", err)
	}
	health, err := shared.NewHealth(model.Health, model.MaxHealth)
	if err != nil {
		return nil, fmt.Errorf("invalid health in database: %w", err)
	}

	var cargo *shared.CargoHold
	if model.CargoCommodity != nil {
		if model.CargoAmount == nil || model.CargoPurchasePort == nil || model.CargoPurchasePrice == nil {
			return nil, shared.NewInvariantViolation(fmt.Sprintf("vessel %s has partial cargo columns", model.ID), nil)
		}
		cargo, err = shared.NewCargoHold(shared.Commodity(*model.CargoCommodity), *model.CargoAmount, *model.CargoPurchasePort, *model.CargoPurchasePrice)
		if err != nil {
			return nil, fmt.Errorf("invalid cargo in database: %w", err)
		}
	}

	var travel *vessel.Travel
	if model.DestinationPortID != nil || model.TravelEndsAt != nil {
		if model.DestinationPortID == nil || model.TravelEndsAt == nil || model.TravelStartedAt == nil {
			return nil, shared.NewInvariantViolation(fmt.Sprintf("vessel %s has partial travel columns", model.ID), nil)
		}
		travel = &vessel.Travel{
			DestinationPortID: *model.DestinationPortID,
			StartedAt:         model.TravelStartedAt.UTC(),
			EndsAt:            model.TravelEndsAt.UTC(),
		}
	}

	return vessel.ReconstructVessel(
		model.ID,
		ownerID,
		model.Name,
		vesselType,
		model.CurrentPortID,
		fuel,
		health,
		model.CrewLevel,
		cargo,
		travel,
		vessel.Stats{
			DistanceTraveled: model.DistanceTraveled,
			TripsCompleted:   model.TripsCompleted,
			TotalProfit:      model.TotalProfit,
			TotalCosts:       model.TotalCosts,
		},
		model.CreatedAt.UTC(),
		model.UpdatedAt.UTC(),
	)
}
