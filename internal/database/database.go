package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/trailtalk/forum-backend/internal/config"
	"github.com/trailtalk/forum-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected")
	return nil
}

// DomainModels lists the forum tables the moderation flow reads and writes.
func DomainModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Category{},
		&models.Discussion{},
		&models.Reply{},
		&models.Report{},
		&models.RefreshToken{},
	}
}

// Migrate runs AutoMigrate for the domain models plus the system log table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(DomainModels()...); err != nil {
		return err
	}
	return db.AutoMigrate(&models.SystemLog{})
}

func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
