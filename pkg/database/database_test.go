package database

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ghuser/stocktake/pkg/config"
	"github.com/ghuser/stocktake/pkg/logger"
)

func openTestSQLite(t *testing.T) *Database {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "stocktake.db")
	d, err := OpenSQLite(context.Background(), path, logger.Nop())
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	if _, err := d.DB().Exec(`CREATE TABLE kv (k TEXT PRIMARY KEY, v TEXT NOT NULL)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return d
}

func countRows(t *testing.T, d *Database) int {
	t.Helper()
	var n int
	if err := d.DB().QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestOpenSQLite_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	d, err := OpenSQLite(context.Background(), filepath.Join(dir, "x.db"), logger.Nop())
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer d.Close() //nolint:errcheck

	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("expected directory to exist: %v", err)
	}
	if d.Driver() != DriverSQLite {
		t.Errorf("Driver: got %q", d.Driver())
	}
	if err := d.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestWithTx_Commit(t *testing.T) {
	d := openTestSQLite(t)

	err := d.WithTx(context.Background(), func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO kv (k, v) VALUES ('a', '1')`)
		return err
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}
	if n := countRows(t, d); n != 1 {
		t.Fatalf("expected 1 row, got %d", n)
	}
}

func TestWithTx_RollbackOnError(t *testing.T) {
	d := openTestSQLite(t)
	boom := errors.New("boom")

	err := d.WithTx(context.Background(), func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO kv (k, v) VALUES ('a', '1')`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if n := countRows(t, d); n != 0 {
		t.Fatalf("expected rollback, found %d rows", n)
	}
}

func TestClose_Nil(t *testing.T) {
	var d *Database
	if err := d.Close(); err != nil {
		t.Fatalf("nil Close: %v", err)
	}
}

// Integration test: runs only when DATABASE_URL is set.
func TestNewPool_Integration(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}
	d, err := NewPool(context.Background(), url, logger.Nop())
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	defer d.Close() //nolint:errcheck
	if err := d.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestOpen_ByBackend(t *testing.T) {
	ctx := context.Background()

	for _, backend := range []string{config.BackendFile, config.BackendMemory} {
		d, err := Open(ctx, &config.Config{StorageBackend: backend}, logger.Nop())
		if err != nil || d != nil {
			t.Errorf("%s: expected no database, got %v, %v", backend, d, err)
		}
	}

	cfg := &config.Config{StorageBackend: config.BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "s.db")}
	d, err := Open(ctx, cfg, logger.Nop())
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	defer d.Close() //nolint:errcheck
	if d.Driver() != DriverSQLite {
		t.Errorf("Driver: got %q", d.Driver())
	}
}
