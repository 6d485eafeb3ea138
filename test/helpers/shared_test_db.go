package helpers

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/searoutes-go/internal/adapters/persistence"
	"github.com/andrescamacho/searoutes-go/internal/infrastructure/database"
)

// SharedTestDB is the database shared by the BDD scenarios
var SharedTestDB *gorm.DB

// InitializeSharedTestDB creates and migrates the shared test database.
// Called once in TestMain before running any scenario.
func InitializeSharedTestDB() error {
	db, err := database.NewTestConnection(persistence.Models()...)
	if err != nil {
		return fmt.Errorf("failed to open shared test database: %w", err)
	}
	SharedTestDB = db
	return nil
}

// TruncateAll empties every table, children first
func TruncateAll(db *gorm.DB) error {
	models := persistence.Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(models[i]).Error; err != nil {
			return fmt.Errorf("failed to truncate: %w", err)
		}
	}
	return nil
}

// CloseSharedTestDB releases the shared database
func CloseSharedTestDB() {
	if SharedTestDB != nil {
		_ = database.Close(SharedTestDB)
		SharedTestDB = nil
	}
}
