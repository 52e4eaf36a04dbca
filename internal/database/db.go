package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB wraps the GORM handle plus the underlying sql.DB for pool settings.
type DB struct {
	*sql.DB
	GORM *gorm.DB
}

// NewDB opens the SQLite sales mart. The mart is produced by the offline
// datamart build; refusing to open a missing file keeps "store unavailable"
// distinguishable from "empty store".
func NewDB(storePath string) (*DB, error) {
	if storePath == "" {
		return nil, fmt.Errorf("store path is empty")
	}
	if _, err := os.Stat(storePath); err != nil {
		return nil, fmt.Errorf("analytical store missing at %s: %w", storePath, err)
	}

	gormDB, err := gorm.Open(sqlite.Open(storePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// Read-mostly single-file store; a small pool is plenty.
	sqlDB.SetMaxOpenConns(8)
	sqlDB.SetMaxIdleConns(2)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping store: %w", err)
	}

	log.Info().Str("path", storePath).Msg("✅ Sales mart connected")
	return &DB{DB: sqlDB, GORM: gormDB}, nil
}

// NewWritableDB opens (creating if needed) the mart for the offline build.
func NewWritableDB(storePath string) (*DB, error) {
	if storePath == "" {
		return nil, fmt.Errorf("store path is empty")
	}
	if dir := filepath.Dir(storePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store dir: %w", err)
		}
	}

	gormDB, err := gorm.Open(sqlite.Open(storePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open store for build: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return &DB{DB: sqlDB, GORM: gormDB}, nil
}

func (db *DB) Close() error {
	log.Info().Msg("🔌 Closing store connection...")
	return db.DB.Close()
}
