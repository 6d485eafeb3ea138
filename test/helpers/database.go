package helpers

import (
	"testing"

	"gorm.io/gorm"

	"github.com/andrescamacho/searoutes-go/internal/adapters/persistence"
	"github.com/andrescamacho/searoutes-go/internal/infrastructure/database"
)

// NewTestDB creates a new SQLite in-memory database with every table migrated
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewTestConnection(persistence.Models()...)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	t.Cleanup(func() {
		_ = database.Close(db)
	})

	return db
}
