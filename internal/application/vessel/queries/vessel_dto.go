package queries

import (
	"time"

	"github.com/andrescamacho/searoutes-go/internal/domain/vessel"
)

// CargoDTO is the cargo slot of a vessel
type CargoDTO struct {
	Commodity            string `json:"commodity"`
	Amount               int    `json:"amount"`
	PurchasePortID       string `json:"purchasePortId"`
	PurchasePricePerUnit int    `json:"purchasePricePerUnit"`
}

// VesselDTO is the client view of a vessel
type VesselDTO struct {
	ID                string     `json:"id"`
	OwnerID           string     `json:"ownerId"`
	Name              string     `json:"name"`
	Type              string     `json:"type"`
	CurrentPortID     string     `json:"currentPortId"`
	Fuel              int        `json:"fuel"`
	MaxFuel           int        `json:"maxFuel"`
	Health            int        `json:"health"`
	MaxHealth         int        `json:"maxHealth"`
	CrewLevel         int        `json:"crewLevel"`
	Cargo             *CargoDTO  `json:"cargo"`
	IsTraveling       bool       `json:"isTraveling"`
	DestinationPortID string     `json:"destinationPortId,omitempty"`
	TravelStartTime   *time.Time `json:"travelStartTime,omitempty"`
	TravelEndTime     *time.Time `json:"travelEndTime,omitempty"`
	DistanceTraveled  float64    `json:"totalDistance"`
	TripsCompleted    int        `json:"totalTrips"`
	TotalProfit       int        `json:"totalProfit"`
	TotalCosts        int        `json:"totalCosts"`
}

// ToVesselDTO converts the aggregate for output
func ToVesselDTO(v *vessel.Vessel) *VesselDTO {
	stats := v.Stats()
	dto := &VesselDTO{
		ID:               v.ID(),
		OwnerID:          v.OwnerID().String(),
		Name:             v.Name(),
		Type:             v.Type().String(),
		CurrentPortID:    v.CurrentPortID(),
		Fuel:             v.Fuel().Current,
		MaxFuel:          v.Fuel().Capacity,
		Health:           v.Health().Current,
		MaxHealth:        v.Health().Max,
		CrewLevel:        v.CrewLevel(),
		IsTraveling:      v.IsTraveling(),
		DistanceTraveled: stats.DistanceTraveled,
		TripsCompleted:   stats.TripsCompleted,
		TotalProfit:      stats.TotalProfit,
		TotalCosts:       stats.TotalCosts,
	}
	if c := v.Cargo(); c != nil {
		dto.Cargo = &CargoDTO{
			Commodity:            c.Commodity.String(),
			Amount:               c.Amount,
			PurchasePortID:       c.PurchasePortID,
			PurchasePricePerUnit: c.PurchasePricePerUnit,
		}
	}
	if t := v.Travel(); t != nil {
		start, end := t.StartedAt, t.EndsAt
		dto.DestinationPortID = t.DestinationPortID
		dto.TravelStartTime = &start
		dto.TravelEndTime = &end
	}
	return dto
}
