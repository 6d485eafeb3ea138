package helpers

import (
	"gorm.io/gorm"

	"github.com/andrescamacho/searoutes-go/internal/adapters/persistence"
	"github.com/andrescamacho/searoutes-go/internal/application/setup"
	"github.com/andrescamacho/searoutes-go/internal/infrastructure/database"
)

// TestRepositories holds real GORM repositories over a test database
type TestRepositories struct {
	DB           *gorm.DB
	Vessels      *persistence.GormVesselRepository
	Ports        *persistence.GormPortRepository
	Players      *persistence.GormPlayerRepository
	Earnings     *persistence.GormEarningsRepository
	Transactions *persistence.GormTransactionRepository
}

// NewTestRepositories creates every repository over db. A nil retrier runs
// each statement once.
func NewTestRepositories(db *gorm.DB, retry *database.Retrier) *TestRepositories {
	return &TestRepositories{
		DB:           db,
		Vessels:      persistence.NewGormVesselRepository(db, retry),
		Ports:        persistence.NewGormPortRepository(db, retry),
		Players:      persistence.NewGormPlayerRepository(db, retry),
		Earnings:     persistence.NewGormEarningsRepository(db, retry),
		Transactions: persistence.NewGormTransactionRepository(db, retry),
	}
}

// Bundle returns the repositories in the shape the handler registry takes
func (r *TestRepositories) Bundle() setup.Repositories {
	return setup.Repositories{
		Vessels:      r.Vessels,
		Ports:        r.Ports,
		Players:      r.Players,
		Earnings:     r.Earnings,
		Transactions: r.Transactions,
	}
}
