package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	setDatabaseDefaults(&cfg.Database)
	setServerDefaults(cfg)
	setGameDefaults(&cfg.Game)

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	// Metrics defaults
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.PollInterval == 0 {
		cfg.Metrics.PollInterval = 30 * time.Second
	}
}

func setDatabaseDefaults(db *DatabaseConfig) {
	if db.Type == "" {
		db.Type = "postgres"
	}
	if db.Host == "" {
		db.Host = "localhost"
	}
	if db.Port == 0 {
		db.Port = 5432
	}
	if db.User == "" {
		db.User = "searoutes"
	}
	if db.Name == "" {
		db.Name = "searoutes"
	}
	if db.SSLMode == "" {
		db.SSLMode = "disable"
	}
	if db.Path == "" {
		db.Path = "searoutes.db"
	}
	if db.Pool.MaxOpen == 0 {
		db.Pool.MaxOpen = 25
	}
	if db.Pool.MaxIdle == 0 {
		db.Pool.MaxIdle = 5
	}
	if db.Pool.MaxLifetime == 0 {
		db.Pool.MaxLifetime = 5 * time.Minute
	}
}

func setServerDefaults(cfg *Config) {
	s := &cfg.Server
	if s.Address == "" {
		s.Address = ":8080"
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 15 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = 30 * time.Second
	}
	if len(s.CORS.AllowedOrigins) == 0 {
		s.CORS.AllowedOrigins = []string{"*"}
	}
	if s.CORS.MaxAge == 0 {
		s.CORS.MaxAge = 300
	}
	if s.RateLimit.Requests == 0 {
		s.RateLimit.Requests = 20
	}
	if s.RateLimit.Burst == 0 {
		s.RateLimit.Burst = 40
	}

	if cfg.Idempotency.TTL == 0 {
		cfg.Idempotency.TTL = 60 * time.Second
	}
	if cfg.Idempotency.MaxEntries == 0 {
		cfg.Idempotency.MaxEntries = 5000
	}

	if cfg.Sweeper.Schedule == "" {
		cfg.Sweeper.Schedule = "@every 30s"
	}
	if cfg.Sweeper.Timeout == 0 {
		cfg.Sweeper.Timeout = 25 * time.Second
	}

	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry.MaxAttempts = 3
	}
	if cfg.Retry.BackoffBase == 0 {
		cfg.Retry.BackoffBase = 500 * time.Millisecond
	}
	if cfg.Retry.BreakerThreshold == 0 {
		cfg.Retry.BreakerThreshold = 5
	}
	if cfg.Retry.BreakerCooldown == 0 {
		cfg.Retry.BreakerCooldown = 10 * time.Second
	}
}

func setGameDefaults(g *GameConfig) {
	if g.Initial.Coins == 0 {
		g.Initial.Coins = 1000
	}
	if g.Initial.MaxFuel == 0 {
		g.Initial.MaxFuel = 100
	}
	if g.Initial.Fuel == 0 {
		g.Initial.Fuel = g.Initial.MaxFuel
	}
	if g.Initial.MaxHealth == 0 {
		g.Initial.MaxHealth = 100
	}
	if g.Initial.Health == 0 {
		g.Initial.Health = g.Initial.MaxHealth
	}
	if g.Initial.CrewLevel == 0 {
		g.Initial.CrewLevel = 1
	}

	if len(g.VesselPrices) == 0 {
		g.VesselPrices = map[string]int{"tanker": 1000, "cargo": 1500, "supply": 1200}
	}

	if len(g.Fuel.Rates) == 0 {
		g.Fuel.Rates = map[string]float64{"tanker": 0.12, "cargo": 0.15, "supply": 0.10}
	}
	if g.Fuel.DefaultRate == 0 {
		g.Fuel.DefaultRate = 0.12
	}
	if g.Fuel.MinFuel == 0 {
		g.Fuel.MinFuel = 5
	}
	if g.Fuel.CargoSurcharge == 0 {
		g.Fuel.CargoSurcharge = 1.1
	}

	if g.Travel.Policy == "" {
		g.Travel.Policy = "fixed"
	}
	if g.Travel.FixedDuration == 0 {
		g.Travel.FixedDuration = 30 * time.Second
	}
	if len(g.Travel.Speeds) == 0 {
		g.Travel.Speeds = map[string]float64{"tanker": 14, "cargo": 16, "supply": 18}
	}
	if g.Travel.DefaultSpeed == 0 {
		g.Travel.DefaultSpeed = 15
	}
	if g.Travel.HourScale == 0 {
		g.Travel.HourScale = time.Minute
	}
	if g.Travel.Minimum == 0 {
		g.Travel.Minimum = 30 * time.Second
	}

	if g.Cargo.MinAmount == 0 {
		g.Cargo.MinAmount = 1
	}
	if g.Cargo.MaxAmount == 0 {
		g.Cargo.MaxAmount = 100
	}

	if g.Economy.FeeRate == 0 {
		g.Economy.FeeRate = 0.15
	}
	if g.Economy.TaxRate == 0 {
		g.Economy.TaxRate = 0.10
	}
	if g.Economy.DistanceBonusPerNM == 0 {
		g.Economy.DistanceBonusPerNM = 0.01
	}
	if g.Economy.CrewBonusPerLevel == 0 {
		g.Economy.CrewBonusPerLevel = 0.1
	}
	if g.Economy.RepairCostPerHealth == 0 {
		g.Economy.RepairCostPerHealth = 5
	}
	if g.Economy.UpgradeBaseCost == 0 {
		g.Economy.UpgradeBaseCost = 500
	}

	if g.Tow.RatePerNM == 0 {
		g.Tow.RatePerNM = 0.5
	}
	if g.Tow.MinFee == 0 {
		g.Tow.MinFee = 50
	}

	if len(g.PriceCurves) == 0 {
		g.PriceCurves = map[string]PriceCurveConfig{
			"oil":        {ReferenceAmount: 200, MinPrice: 8, MaxPrice: 30, MinAmount: 10, CeilingPrice: 40},
			"materials":  {ReferenceAmount: 200, MinPrice: 10, MaxPrice: 35, MinAmount: 10, CeilingPrice: 45},
			"provisions": {ReferenceAmount: 200, MinPrice: 6, MaxPrice: 25, MinAmount: 10, CeilingPrice: 32},
		}
	}

	if g.FallbackDistance == 0 {
		g.FallbackDistance = 500
	}
}
