package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/pressly/goose/v3"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/config"
)

// DefaultDir is where new migrations are created on disk. The binaries run
// the copies embedded below.
const DefaultDir = "pkg/migrate/migrations"

//go:embed migrations/*.sql
var embedded embed.FS

// Migrations returns the embedded migration files rooted at the migrations dir.
func Migrations() fs.FS {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		panic(fmt.Sprintf("embedded migrations: %v", err))
	}
	return sub
}

// DialectFor maps a config DB driver onto the goose dialect.
func DialectFor(driver string) (goose.Dialect, error) {
	switch driver {
	case config.DBDriverPostgres, "":
		return goose.DialectPostgres, nil
	case config.DBDriverSQLite:
		return goose.DialectSQLite3, nil
	default:
		return "", fmt.Errorf("unsupported migration driver %q", driver)
	}
}

// NewProvider builds a goose provider over the embedded migrations.
func NewProvider(db *sql.DB, driver string) (*goose.Provider, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}
	provider, err := goose.NewProvider(dialect, db, Migrations())
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	return provider, nil
}

// Run executes up or down against db.
func Run(ctx context.Context, db *sql.DB, driver string, command string) error {
	provider, err := NewProvider(db, driver)
	if err != nil {
		return err
	}

	switch command {
	case "up":
		if _, err := provider.Up(ctx); err != nil {
			return fmt.Errorf("goose up: %w", err)
		}
	case "down":
		if _, err := provider.Down(ctx); err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
	default:
		return fmt.Errorf("unsupported goose command %q", command)
	}
	return nil
}

// Status reports every known migration and whether it has been applied.
func Status(ctx context.Context, db *sql.DB, driver string) ([]*goose.MigrationStatus, error) {
	provider, err := NewProvider(db, driver)
	if err != nil {
		return nil, err
	}
	statuses, err := provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("goose status: %w", err)
	}
	return statuses, nil
}

// CurrentVersion returns the highest applied migration version.
func CurrentVersion(ctx context.Context, db *sql.DB, driver string) (int64, error) {
	provider, err := NewProvider(db, driver)
	if err != nil {
		return 0, err
	}
	return provider.GetDBVersion(ctx)
}

// MigrateToVersion migrates up/down to the requested version by comparing current DB version.
func MigrateToVersion(ctx context.Context, db *sql.DB, driver string, targetVersion string) error {
	if targetVersion == "" {
		return fmt.Errorf("targetVersion is required")
	}

	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}

	provider, err := NewProvider(db, driver)
	if err != nil {
		return err
	}

	current, err := provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	switch {
	case current == target:
		return nil

	case current < target:
		if _, err := provider.UpTo(ctx, target); err != nil {
			return fmt.Errorf("goose up-to %d: %w", target, err)
		}
		return nil

	default:
		if _, err := provider.DownTo(ctx, target); err != nil {
			return fmt.Errorf("goose down-to %d: %w", target, err)
		}
		return nil
	}
}
