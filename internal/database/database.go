package database

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/revaspay/payment-webhooks/internal/config"
	"github.com/revaspay/payment-webhooks/internal/database/migrations"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB initializes the database connection with configuration
func InitDB(dbConfig config.DatabaseConfig, production bool) (*gorm.DB, error) {
	logLevel := logger.Info
	if production {
		logLevel = logger.Warn
	}
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	dialector, err := openDialector(dbConfig)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	maxConns := dbConfig.MaxConns
	if dbConfig.Driver == config.LedgerBackendSQLite {
		// SQLite allows a single writer
		maxConns = 1
	}
	sqlDB.SetMaxIdleConns(dbConfig.MaxIdle)
	sqlDB.SetMaxOpenConns(maxConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Run migrations
	if err := migrations.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func openDialector(dbConfig config.DatabaseConfig) (gorm.Dialector, error) {
	switch dbConfig.Driver {
	case config.LedgerBackendPostgres, "":
		return postgres.Open(dbConfig.URL), nil
	case config.LedgerBackendSQLite:
		return sqlite.Open(dbConfig.URL), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", dbConfig.Driver)
	}
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
