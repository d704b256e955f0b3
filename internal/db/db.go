// Package db opens the cellar database and keeps its schema current.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"winecalc/internal/config"
	applog "winecalc/internal/log"
	"winecalc/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqliteScheme selects the sqlite driver, e.g. "sqlite:cellar.db" for a
// single-user cellar on disk. Any other URL is handed to postgres.
const sqliteScheme = "sqlite:"

var errNilDatabase = errors.New("db: database handle is nil")

// Models lists every persisted type in migration order. Blends reference
// tanks and users, so they come last.
func Models() []any {
	return []any{
		&models.User{},
		&models.Tank{},
		&models.Blend{},
		&models.BlendComponent{},
	}
}

// GormConfig is the gorm setup shared by every winecalc database: UTC
// timestamps, prepared statements, no implicit write transactions.
func GormConfig(level logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
		Logger:                                   logger.Default.LogMode(level),
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func dialector(url string) gorm.Dialector {
	if path, ok := strings.CutPrefix(url, sqliteScheme); ok {
		return sqlite.Open(path)
	}
	return postgres.Open(url)
}

// Open connects to the database named by cfg.URL and applies the pool limits.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, fmt.Errorf("database URL must not be empty")
	}

	database, err := gorm.Open(dialector(url), GormConfig(logger.Warn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	applyPool(sqlDB, cfg)
	return database, nil
}

// applyPool leaves the driver default in place for every zero limit.
func applyPool(sqlDB *sql.DB, cfg config.DatabaseConfig) {
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
}

// Migrate creates or updates the cellar tables.
func Migrate(ctx context.Context, database *gorm.DB) error {
	if database == nil {
		return errNilDatabase
	}
	tables := Models()
	if err := database.WithContext(ctx).AutoMigrate(tables...); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	applog.Debug(ctx, "schema migrated", "dialect", database.Dialector.Name(), "tables", len(tables))
	return nil
}

// Configure opens the database and migrates it, ready for the server.
func Configure(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, error) {
	database, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, database); err != nil {
		if sqlDB, closeErr := database.DB(); closeErr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}
	applog.Info(ctx, "database ready", "dialect", database.Dialector.Name())
	return database, nil
}
