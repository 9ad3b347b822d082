// Package database opens the SQL connection pools used by the sqlite and
// postgres storage backends and runs work inside transactions.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // registers the "sqlite" driver

	"github.com/ghuser/stocktake/pkg/config"
	"github.com/ghuser/stocktake/pkg/logger"
)

// Driver names registered by the imported database/sql drivers.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// Database wraps *sql.DB with the driver it was opened with.
type Database struct {
	db     *sql.DB
	driver string
	log    logger.Logger
}

// NewPool opens a PostgreSQL pool over pgx's database/sql driver and
// verifies connectivity.
func NewPool(ctx context.Context, url string, log logger.Logger) (*Database, error) {
	db, err := sql.Open(DriverPostgres, url)
	if err != nil {
		return nil, fmt.Errorf("database: open postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database: ping postgres: %w", err)
	}

	log.Info("database: connected", "driver", DriverPostgres)
	return &Database{db: db, driver: DriverPostgres, log: log}, nil
}

// OpenSQLite opens (creating if needed) the SQLite database at path using the
// pure-Go modernc.org/sqlite driver.
func OpenSQLite(ctx context.Context, path string, log logger.Logger) (*Database, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("database: create %s: %w", dir, err)
		}
	}

	db, err := sql.Open(DriverSQLite, path)
	if err != nil {
		return nil, fmt.Errorf("database: open sqlite: %w", err)
	}
	// One connection keeps pragmas and transactions on the same handle.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("database: %s: %w", p, err)
		}
	}

	log.Info("database: opened", "driver", DriverSQLite, "path", path)
	return &Database{db: db, driver: DriverSQLite, log: log}, nil
}

// DB returns the underlying pool.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Driver returns the database/sql driver name.
func (d *Database) Driver() string {
	return d.driver
}

// WithTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise.
func (d *Database) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("database: begin: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			d.log.ErrorContext(ctx, "database: rollback failed", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("database: commit: %w", err)
	}
	return nil
}

// Ping checks the connection health.
func (d *Database) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database: ping: %w", err)
	}
	return nil
}

// Close closes the pool.
func (d *Database) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Open opens the database for the configured SQL backend. It returns nil
// and no error for backends that do not use SQL.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (*Database, error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		return NewPool(ctx, cfg.DatabaseURL, log)
	case config.BackendSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath, log)
	default:
		return nil, nil
	}
}
