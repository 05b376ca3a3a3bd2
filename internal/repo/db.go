// Package repo implements the data persistence layer for client records,
// backed by GORM. This file contains database bootstrapping helpers for
// SQLite (pure Go driver) and schema migrations.
package repo

import (
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/cadastro-clientes/internal/domain"
)

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
// A nil gormLogger silences SQL logging.
//
// The pool is pinned to a single connection: the tool is single-user and
// single-threaded, and one long-lived connection keeps PRAGMAs and
// transactions on the same handle.
func OpenSQLite(path string, gormLogger logger.Interface) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}
	if gormLogger == nil {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, err
	}

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	return db, nil
}

// AutoMigrate creates the clients table and its unique indexes when missing.
// It is idempotent.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Client{})
}

// Close releases the underlying connection pool. It is safe on a nil handle.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// slowQuery is the threshold above which gorm reports a query as slow.
const slowQuery = 200 * time.Millisecond

// gormWriter sends gorm's log lines to zerolog.
type gormWriter struct{ l zerolog.Logger }

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.l.Debug().Str("component", "gorm").Msgf(format, args...)
}

// NewGormLogger returns a gorm logger writing through l. SQL tracing is only
// enabled when the global zerolog level is debug or lower; otherwise gorm
// stays silent and callers log failures themselves.
func NewGormLogger(l zerolog.Logger) logger.Interface {
	lvl := logger.Silent
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		lvl = logger.Info
	}
	return logger.New(gormWriter{l: l}, logger.Config{
		SlowThreshold:             slowQuery,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
	})
}
