package persistence

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// mapNotFound turns a missing row into the domain NotFound error
func mapNotFound(err error, entity, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(entity, id)
	}
	return err
}

// isUniqueViolation covers both the translated gorm error and drivers that
// only report it as text
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
