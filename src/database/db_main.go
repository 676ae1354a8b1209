package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"prettytrace/src/model"
)

// MainDB is the primary database connection used for report persistence.
var MainDB *gorm.DB

// InitMainDB opens the configured database and runs migrations. Call once
// at application startup. The driver is selected by config: sqlite for
// local/standalone use, postgres for shared deployments.
func InitMainDB() error {
	config := GetConfig()

	dialector, err := openDialector(config)
	if err != nil {
		return err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.LogLevel(config.GormLogLevel)),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get DB from GORM: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	// Assign to the global variable only after a successful connection.
	MainDB = db

	logrus.Info("[database] MainDB connection established")

	if err := MainDB.AutoMigrate(
		&model.ErrorReport{},
	); err != nil {
		return fmt.Errorf("failed to run migrations on MainDB: %w", err)
	}

	logrus.Info("[database] MainDB migrations completed")

	return nil
}

func openDialector(config Config) (gorm.Dialector, error) {
	switch config.Driver {
	case "sqlite":
		return sqlite.Open(config.SQLitePath), nil
	case "postgres":
		return postgres.Open(config.DatabaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", config.Driver)
	}
}
