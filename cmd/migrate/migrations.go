package main

import (
	"gorm.io/gorm"

	"github.com/taskhive/engine/internal/models"
)

// registerModels returns all models that need migration
func registerModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Task{},
	}
}

// runMigrations executes all database migrations
func runMigrations(db *gorm.DB) error {
	if err := enableUUIDExtension(db); err != nil {
		return err
	}
	if err := db.AutoMigrate(registerModels()...); err != nil {
		return err
	}
	return addTaskIndexes(db)
}

// enableUUIDExtension ensures UUID generation is available
func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error
}

// addTaskIndexes adds composite indexes for the hot query paths
func addTaskIndexes(db *gorm.DB) error {
	// owner + due date drives the upcoming window; owner + completed drives
	// pending scans
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tasks_owner_due_date
		ON tasks(owner_id, due_date)
		WHERE completed = false
	`).Error; err != nil {
		return err
	}
	return db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tasks_owner_created_at
		ON tasks(owner_id, created_at DESC)
	`).Error
}
