package database

import (
	"fmt"

	"gorm.io/gorm"

	"taskboard-api/internal/domain"
)

// AutoMigrate creates or updates the schema for every domain model.
// Order matters: parents before children so FK constraints resolve.
func AutoMigrate(db *gorm.DB) error {
	models := []interface{}{
		&domain.Board{},
		&domain.BoardMember{},
		&domain.List{},
		&domain.Task{},
		&domain.Activity{},
	}

	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}
	return nil
}
