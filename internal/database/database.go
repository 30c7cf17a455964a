package database

import (
	"fmt"
	"log"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fleetnavigator/internal/logging"
	"fleetnavigator/internal/models"
)

// ClientModels are migrated into the client's local store database.
var ClientModels = []any{&models.LocalEntry{}}

// BackendModels are migrated into the settings backend database.
var BackendModels = []any{&models.AppSetting{}}

// Config holds DB configuration
type Config struct {
	Path     string
	LogLevel logger.LogLevel
	Logger   zerolog.Logger
	Models   []any
}

// Init opens a SQLite DB and runs migrations
func Init(cfg Config) (*gorm.DB, error) {
	if cfg.LogLevel == 0 {
		cfg.LogLevel = logger.Warn
	}
	if cfg.Path == "" {
		cfg.Path = GetDefaultDBPath()
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON", cfg.Path)

	gormLogger := logger.New(
		log.New(logging.Writer{Logger: cfg.Logger, Level: zerolog.InfoLevel}, "", 0),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  cfg.LogLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// A single connection avoids "database is locked" and keeps :memory: alive
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := migrate(db, cfg.Models); err != nil {
		return nil, err
	}

	return db, nil
}

// migrate runs automigrations for the given model list.
func migrate(db *gorm.DB, list []any) error {
	if len(list) == 0 {
		return nil
	}
	if err := db.AutoMigrate(list...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
