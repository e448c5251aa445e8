package pkg

import (
	"fmt"

	"github.com/SAP-F-2025/grade-service/internal/config"
	"github.com/SAP-F-2025/grade-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDatabase opens the catalog database and migrates its tables.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Warn
	if !cfg.IsProduction() {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.Term{}, &models.GradedItem{}); err != nil {
		return nil, fmt.Errorf("failed to migrate catalog tables: %w", err)
	}

	return db, nil
}
