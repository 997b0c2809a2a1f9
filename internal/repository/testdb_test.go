package repository

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory SQLite database with the schema created by
// hand. The models carry Postgres column types that SQLite cannot migrate.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	ddl := []string{
		`CREATE TABLE boards (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			owner_id TEXT NOT NULL,
			background TEXT NOT NULL DEFAULT '#0079bf'
		)`,
		`CREATE TABLE board_members (
			id TEXT PRIMARY KEY,
			board_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			joined_at DATETIME NOT NULL,
			UNIQUE (board_id, user_id)
		)`,
		`CREATE TABLE lists (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			title TEXT NOT NULL,
			board_id TEXT NOT NULL,
			position INTEGER NOT NULL
		)`,
		`CREATE TABLE tasks (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			list_id TEXT NOT NULL,
			board_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			assignees TEXT,
			labels TEXT,
			due_date DATETIME,
			completed INTEGER NOT NULL DEFAULT 0,
			created_by TEXT NOT NULL
		)`,
		`CREATE TABLE activities (
			id TEXT PRIMARY KEY,
			board_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			action TEXT NOT NULL,
			entity TEXT NOT NULL,
			entity_id TEXT,
			details TEXT,
			created_at DATETIME NOT NULL
		)`,
	}
	for _, stmt := range ddl {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("failed to create schema: %v", err)
		}
	}

	return db
}
