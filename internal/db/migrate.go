// Package db applies the embedded schema migrations using goose
// (github.com/pressly/goose/v3). Migration files live in
// internal/db/migrations/{postgres,sqlite} and are embedded via //go:embed.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/netgraph/internal/db/migrations"
	"github.com/persistorai/netgraph/internal/dbpool"
)

// RunMigrations applies all pending PostgreSQL migrations.
func RunMigrations(ctx context.Context, pool *dbpool.Pool, log *logrus.Logger) error {
	// goose requires a *sql.DB; open one over the pool's connection string
	// through the pgx stdlib driver.
	sqlDB, err := sql.Open("pgx", pool.ConnString())
	if err != nil {
		return fmt.Errorf("opening sql.DB for migrations: %w", err)
	}
	defer sqlDB.Close()

	return migrate(ctx, goose.DialectPostgres, sqlDB, log, migrations.Postgres())
}

// MigrateSQLite applies all pending SQLite migrations to sqlDB.
func MigrateSQLite(ctx context.Context, sqlDB *sql.DB, log *logrus.Logger) error {
	return migrate(ctx, goose.DialectSQLite3, sqlDB, log, migrations.SQLite())
}

func migrate(ctx context.Context, dialect goose.Dialect, sqlDB *sql.DB, log *logrus.Logger, fsys fs.FS) error {
	provider, err := goose.NewProvider(dialect, sqlDB, fsys)
	if err != nil {
		return fmt.Errorf("creating goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	for _, r := range results {
		if r.Error != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", r.Source.Version, r.Source.Path, r.Error)
		}

		log.WithFields(logrus.Fields{
			"dialect":  dialect,
			"version":  r.Source.Version,
			"file":     r.Source.Path,
			"duration": r.Duration,
		}).Info("migration applied")
	}

	if len(results) == 0 {
		log.WithField("dialect", dialect).Debug("all migrations already applied")
	}

	return nil
}
