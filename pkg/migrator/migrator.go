package migrator

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"github.com/ghuser/stocktake/pkg/database"
)

// dialectFor maps a database/sql driver name to its goose dialect.
func dialectFor(driver string) (string, error) {
	switch driver {
	case database.DriverPostgres:
		return "postgres", nil
	case database.DriverSQLite:
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("no goose dialect for driver %q", driver)
	}
}

// RunMigrations runs all pending goose migrations from files against db.
func RunMigrations(ctx context.Context, db *database.Database, files fs.FS) error {
	dialect, err := dialectFor(db.Driver())
	if err != nil {
		return err
	}

	goose.SetBaseFS(files)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db.DB(), "."); err != nil {
		return fmt.Errorf("failed to up migrations: %w", err)
	}
	return nil
}
