// Package database opens the SQLite database backing the link store.
package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/axellelanca/quickurl/internal/config"
	"github.com/axellelanca/quickurl/internal/models"
)

// Open connects to the configured SQLite file and migrates the links table.
// The returned handle uses a single connection: SQLite serializes writers anyway and
// one connection keeps busy errors away from concurrent requests.
func Open(cfg config.DatabaseConfig, log zerolog.Logger) (*gorm.DB, error) {
	if dir := filepath.Dir(cfg.Name); !isMemory(cfg.Name) && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn(cfg)), &gorm.Config{
		Logger:         NewGormLogger(log),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %s: %w", cfg.Name, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	log.Info().Str("db_path", cfg.Name).Msg("Database initialized and schema verified")
	return db, nil
}

// Migrate creates or updates the users table from the Link model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Link{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dsn(cfg config.DatabaseConfig) string {
	sep := "?"
	if strings.Contains(cfg.Name, "?") {
		sep = "&"
	}
	var pragmas []string
	if cfg.BusyTimeoutMs > 0 {
		pragmas = append(pragmas, fmt.Sprintf("_pragma=busy_timeout(%d)", cfg.BusyTimeoutMs))
	}
	if !isMemory(cfg.Name) {
		pragmas = append(pragmas, "_pragma=journal_mode(WAL)")
	}
	if len(pragmas) == 0 {
		return cfg.Name
	}
	return cfg.Name + sep + strings.Join(pragmas, "&")
}

func isMemory(name string) bool {
	return strings.HasPrefix(name, ":memory:") || strings.Contains(name, "mode=memory")
}
