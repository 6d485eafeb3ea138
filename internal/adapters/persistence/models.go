package persistence

import (
	"time"
)

// PlayerModel represents the players table
type PlayerModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Username  string    `gorm:"column:username;uniqueIndex;not null"`
	Coins     int       `gorm:"column:coins;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (PlayerModel) TableName() string {
	return "players"
}

// PortModel represents the ports table. Coordinates are optional; ports
// without them fall back to the configured distance.
type PortModel struct {
	ID    string           `gorm:"column:id;primaryKey"`
	Name  string           `gorm:"column:name;uniqueIndex;not null"`
	Lat   *float64         `gorm:"column:lat"`
	Lon   *float64         `gorm:"column:lon"`
	Stock []PortStockModel `gorm:"foreignKey:PortID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (PortModel) TableName() string {
	return "ports"
}

// PortStockModel represents the port_stocks table, one row per port and commodity
type PortStockModel struct {
	PortID    string `gorm:"column:port_id;primaryKey"`
	Commodity string `gorm:"column:commodity;primaryKey"`
	Amount    int    `gorm:"column:amount;not null;default:0"`
	Price     int    `gorm:"column:price;not null;default:0"`
}

func (PortStockModel) TableName() string {
	return "port_stocks"
}

// VesselModel represents the vessels table. The cargo and travel column
// groups are either fully set or fully null.
type VesselModel struct {
	ID            string       `gorm:"column:id;primaryKey"`
	OwnerID       string       `gorm:"column:owner_id;not null;index:idx_vessels_owner_type"`
	Owner         *PlayerModel `gorm:"foreignKey:OwnerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Name          string       `gorm:"column:name;not null"`
	Type          string       `gorm:"column:type;not null;index:idx_vessels_owner_type"`
	CurrentPortID string       `gorm:"column:current_port_id;not null"`
	Fuel          int          `gorm:"column:fuel;not null"`
	MaxFuel       int          `gorm:"column:max_fuel;not null"`
	Health        int          `gorm:"column:health;not null"`
	MaxHealth     int          `gorm:"column:max_health;not null"`
	CrewLevel     int          `gorm:"column:crew_level;not null;default:1"`

	CargoCommodity     *string `gorm:"column:cargo_commodity"`
	CargoAmount        *int    `gorm:"column:cargo_amount"`
	CargoPurchasePort  *string `gorm:"column:cargo_purchase_port_id"`
	CargoPurchasePrice *int    `gorm:"column:cargo_purchase_price"`

	DestinationPortID *string    `gorm:"column:destination_port_id"`
	TravelStartedAt   *time.Time `gorm:"column:travel_started_at"`
	TravelEndsAt      *time.Time `gorm:"column:travel_ends_at;index"`

	DistanceTraveled float64 `gorm:"column:distance_traveled;not null;default:0"`
	TripsCompleted   int     `gorm:"column:trips_completed;not null;default:0"`
	TotalProfit      int     `gorm:"column:total_profit;not null;default:0"`
	TotalCosts       int     `gorm:"column:total_costs;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (VesselModel) TableName() string {
	return "vessels"
}

// EarningsModel represents the earnings table
type EarningsModel struct {
	PlayerID  string       `gorm:"column:player_id;primaryKey"`
	Player    *PlayerModel `gorm:"foreignKey:PlayerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Total     int          `gorm:"column:total;not null;default:0;index"`
	Weekly    int          `gorm:"column:weekly;not null;default:0"`
	WeekStart time.Time    `gorm:"column:week_start;not null"`
	UpdatedAt time.Time    `gorm:"column:updated_at;not null"`
}

func (EarningsModel) TableName() string {
	return "earnings"
}

// TransactionModel represents the transactions table
type TransactionModel struct {
	ID              string    `gorm:"column:id;primaryKey"`
	PlayerID        string    `gorm:"column:player_id;not null;index:idx_transactions_player_time"`
	Timestamp       time.Time `gorm:"column:timestamp;not null;index:idx_transactions_player_time"`
	TransactionType string    `gorm:"column:transaction_type;not null"`
	Category        string    `gorm:"column:category;not null"`
	Amount          int       `gorm:"column:amount;not null"`
	BalanceBefore   int       `gorm:"column:balance_before;not null"`
	BalanceAfter    int       `gorm:"column:balance_after;not null"`
	Description     string    `gorm:"column:description"`
	Metadata        string    `gorm:"column:metadata;type:text"` // JSON as text
	VesselID        string    `gorm:"column:vessel_id;index"`
}

func (TransactionModel) TableName() string {
	return "transactions"
}

// Models lists every table in dependency order for migration
func Models() []interface{} {
	return []interface{}{
		&PlayerModel{},
		&PortModel{},
		&PortStockModel{},
		&VesselModel{},
		&EarningsModel{},
		&TransactionModel{},
	}
}
