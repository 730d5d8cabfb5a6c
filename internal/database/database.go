package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"groupplan/internal/config"
	"groupplan/internal/model"
)

// Open connects to Postgres using the configured DSN.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	return db, nil
}

// Migrate ensures all tables and columns exist. AutoMigrate is
// additive only: it creates missing tables and adds missing columns
// (tasks.subgroup_id and groups.members_can_create_tasks included) but
// never drops anything, so it is safe to run on every startup.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Group{},
		&model.GroupMember{},
		&model.Subgroup{},
		&model.Task{},
		&model.TaskAssignment{},
		&model.TaskComment{},
		&model.Notification{},
		&model.GroupInvitation{},
	)
}
