package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"winecalc/internal/config"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestOpenRequiresURL(t *testing.T) {
	t.Parallel()

	for _, url := range []string{"", "   "} {
		db, err := Open(config.DatabaseConfig{URL: url})
		if err == nil {
			t.Fatalf("expected error for database URL %q", url)
		}
		if db != nil {
			t.Fatal("expected returned db handle to be nil on error")
		}
	}
}

func TestDialectorPicksDriverFromURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want string
	}{
		{url: "sqlite:cellar.db", want: "sqlite"},
		{url: "postgres://winecalc@localhost/winecalc", want: "postgres"},
		{url: "host=localhost user=winecalc dbname=winecalc", want: "postgres"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()

			if got := dialector(tt.url).Name(); got != tt.want {
				t.Fatalf("dialector(%q) = %s, want %s", tt.url, got, tt.want)
			}
		})
	}
}

func TestMigrateRejectsNilDatabase(t *testing.T) {
	t.Parallel()

	if err := Migrate(context.Background(), nil); !errors.Is(err, errNilDatabase) {
		t.Fatalf("expected errNilDatabase, got %v", err)
	}
}

func TestMigrateWithSQLite(t *testing.T) {
	t.Parallel()

	sqliteDB, err := gorm.Open(sqlite.Open("file:migrate?mode=memory&cache=shared"), GormConfig(logger.Silent))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}

	if err := Migrate(context.Background(), sqliteDB); err != nil {
		t.Fatalf("migrate sqlite database: %v", err)
	}
	for _, model := range Models() {
		if !sqliteDB.Migrator().HasTable(model) {
			t.Fatalf("expected table for %T", model)
		}
	}
}

func TestConfigureSQLiteFileAppliesPool(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cellar.db")
	database, err := Configure(context.Background(), config.DatabaseConfig{
		URL:             sqliteScheme + path,
		MaxOpenConns:    3,
		ConnMaxLifetime: time.Minute,
	})
	if err != nil {
		t.Fatalf("configure sqlite cellar: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if got := sqlDB.Stats().MaxOpenConnections; got != 3 {
		t.Fatalf("expected 3 max open connections, got %d", got)
	}
	if !database.Migrator().HasTable(Models()[0]) {
		t.Fatal("expected users table after configure")
	}
}

func TestConfigurePropagatesOpenError(t *testing.T) {
	t.Parallel()

	if _, err := Configure(context.Background(), config.DatabaseConfig{}); err == nil {
		t.Fatal("expected configuration error when open fails")
	}
}
