// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains database bootstrapping: driver selection
// (SQLite, MySQL, PostgreSQL), pool bounds, optional tracing, and migrations.
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/HansOheneba/airban-api/internal/config"
	"github.com/HansOheneba/airban-api/internal/domain"
)

// OpenOptions tweaks Open beyond what DBConfig carries.
type OpenOptions struct {
	// Tracing installs the GORM OpenTelemetry plugin so every statement
	// becomes a span under the request trace.
	Tracing bool
	// LogLevel for GORM's own logger. Zero means logger.Warn.
	LogLevel logger.LogLevel
}

// Open connects to the configured database and bounds the connection pool.
// The returned *gorm.DB is safe for concurrent use and is meant to be created
// once at startup and injected into services.
func Open(cfg config.DBConfig, opts OpenOptions) (*gorm.DB, error) {
	dial, err := dialector(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	lvl := opts.LogLevel
	if lvl == 0 {
		lvl = logger.Warn
	}
	db, err := gorm.Open(dial, &gorm.Config{
		Logger:         logger.Default.LogMode(lvl),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	if cfg.Driver == "sqlite" {
		db.Exec("PRAGMA journal_mode=WAL;")
		db.Exec("PRAGMA synchronous=NORMAL;")
		db.Exec("PRAGMA foreign_keys=ON;")
		db.Exec("PRAGMA busy_timeout=5000;")
	}

	if opts.Tracing {
		if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
			return nil, fmt.Errorf("gorm tracing: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(min(cfg.MaxIdleConns, cfg.MaxOpenConns))
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return db, nil
}

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite":
		// Fail early if the parent directory does not exist instead of
		// surfacing sqlite's "out of memory (14)".
		if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
			if dir := filepath.Dir(dsn); dir != "." {
				if _, err := os.Stat(dir); err != nil {
					return nil, err
				}
			}
		}
		return sqlite.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
}

// AutoMigrate creates or updates every table the API uses.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Door{},
		&domain.DoorImage{},
		&domain.DoorVariant{},
		&domain.Order{},
		&domain.OrderItem{},
		&domain.PropertyEnquiry{},
		&domain.ContactEnquiry{},
		&domain.Subscriber{},
		&domain.Idempotency{},
	)
}
