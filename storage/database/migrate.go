package database

import (
	"fmt"

	"MomCare/internal/model"
	"MomCare/pkg/logger"
)

// Migrate 自动迁移所有业务表
func Migrate() error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	err := db.AutoMigrate(
		&model.User{},
		&model.Pregnancy{},
		&model.Visit{},
		&model.Reminder{},
		&model.RiskAlert{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}

	logger.Logger.Info("Database migration completed")
	return nil
}
