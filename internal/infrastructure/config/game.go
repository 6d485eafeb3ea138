package config

import "time"

// GameConfig holds every tunable rule of the simulation. Ports, recipes and
// distance overrides live in the world file instead.
type GameConfig struct {
	// Path of the world yaml; empty uses the built-in world
	WorldFile string `mapstructure:"world_file"`

	Initial      InitialConfig               `mapstructure:"initial"`
	VesselPrices map[string]int              `mapstructure:"vessel_prices" validate:"required,dive,keys,vessel_type,endkeys,min=1"`
	Fuel         FuelConfig                  `mapstructure:"fuel"`
	Travel       TravelConfig                `mapstructure:"travel"`
	Cargo        CargoConfig                 `mapstructure:"cargo"`
	Economy      EconomyConfig               `mapstructure:"economy"`
	Tow          TowConfig                   `mapstructure:"tow"`
	PriceCurves  map[string]PriceCurveConfig `mapstructure:"price_curves" validate:"required,dive,keys,commodity,endkeys"`

	// Distance used when either port has no coordinates
	FallbackDistance float64 `mapstructure:"fallback_distance" validate:"gt=0"`
}

// InitialConfig is what a new player and a new vessel start with
type InitialConfig struct {
	Coins     int `mapstructure:"coins" validate:"min=0"`
	Fuel      int `mapstructure:"fuel" validate:"min=0,ltefield=MaxFuel"`
	MaxFuel   int `mapstructure:"max_fuel" validate:"min=1"`
	Health    int `mapstructure:"health" validate:"min=0,ltefield=MaxHealth"`
	MaxHealth int `mapstructure:"max_health" validate:"min=1"`
	CrewLevel int `mapstructure:"crew_level" validate:"min=1,max=10"`
}

// FuelConfig drives the fuel cost of a voyage
type FuelConfig struct {
	// Per nautical mile burn by vessel type
	Rates          map[string]float64 `mapstructure:"rates"`
	DefaultRate    float64            `mapstructure:"default_rate" validate:"gt=0"`
	MinFuel        int                `mapstructure:"min_fuel" validate:"min=0"`
	CargoSurcharge float64            `mapstructure:"cargo_surcharge" validate:"gte=1,lte=2"`
}

// TravelConfig selects and parameterizes the voyage duration policy
type TravelConfig struct {
	Policy        string             `mapstructure:"policy" validate:"required,oneof=fixed formula"`
	FixedDuration time.Duration      `mapstructure:"fixed_duration" validate:"gt=0"`
	Speeds        map[string]float64 `mapstructure:"speeds"`
	DefaultSpeed  float64            `mapstructure:"default_speed" validate:"gt=0"`
	// Real time that one game hour lasts
	HourScale time.Duration `mapstructure:"hour_scale" validate:"gt=0"`
	Minimum   time.Duration `mapstructure:"minimum" validate:"gte=0"`
}

// CargoConfig bounds a single load
type CargoConfig struct {
	MinAmount int `mapstructure:"min_amount" validate:"min=1"`
	MaxAmount int `mapstructure:"max_amount" validate:"gtefield=MinAmount"`
}

// EconomyConfig drives unload settlement, repairs and crew upgrades
type EconomyConfig struct {
	FeeRate             float64 `mapstructure:"fee_rate" validate:"gte=0,lt=1"`
	TaxRate             float64 `mapstructure:"tax_rate" validate:"gte=0,lt=1"`
	DistanceBonusPerNM  float64 `mapstructure:"distance_bonus_per_nm" validate:"gte=0"`
	CrewBonusPerLevel   float64 `mapstructure:"crew_bonus_per_level" validate:"gte=0"`
	RepairCostPerHealth int     `mapstructure:"repair_cost_per_health" validate:"min=0"`
	// Upgrading from crew level n costs n times this
	UpgradeBaseCost int `mapstructure:"upgrade_base_cost" validate:"min=0"`
}

// TowConfig prices an emergency tow
type TowConfig struct {
	RatePerNM float64 `mapstructure:"rate_per_nm" validate:"gte=0"`
	MinFee    int     `mapstructure:"min_fee" validate:"min=0"`
}

// PriceCurveConfig is the demand curve of one commodity
type PriceCurveConfig struct {
	ReferenceAmount int `mapstructure:"reference_amount" validate:"min=1"`
	MinPrice        int `mapstructure:"min_price" validate:"min=0"`
	MaxPrice        int `mapstructure:"max_price" validate:"gtefield=MinPrice"`
	MinAmount       int `mapstructure:"min_amount" validate:"min=0"`
	CeilingPrice    int `mapstructure:"ceiling_price" validate:"min=0"`
}
