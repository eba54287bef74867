// Package store owns database access: connection setup, embedded goose
// migrations and the bun repositories for every model.
package store

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/vivienda/bienesraices/internal/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Open connects to the configured database and returns a bun handle.
// Supported drivers are "pgx" (postgres) and "sqlite".
func Open(cfg config.StorageConfig) (*bun.DB, error) {
	switch cfg.Driver {
	case "pgx", "postgres":
		sqldb, err := sql.Open("pgx", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return bun.NewDB(sqldb, pgdialect.New()), nil
	case "sqlite", "sqlite3":
		sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// sqlite's in-process driver misbehaves with concurrent writers
		// on a single file database.
		sqldb.SetMaxOpenConns(1)
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}

// Migrate applies the embedded goose migrations, including the category and
// price seed rows.
func Migrate(db *bun.DB, driver string) error {
	goose.SetBaseFS(migrationsFS)

	dialect := "sqlite3"
	if driver == "pgx" || driver == "postgres" {
		dialect = "pgx"
	}

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migration error setting dialect: %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
