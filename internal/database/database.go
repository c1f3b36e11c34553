// Package database owns the Postgres pool lifecycle and schema migrations.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sigem/api/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	migrate "github.com/rubenv/sql-migrate"
)

const migrationTable = "sigem_migrations"

// NewPool applies pending migrations when enabled, then builds and verifies
// the connection pool the rest of the service shares.
func NewPool(ctx context.Context, dbCfg config.DatabaseConfig, appName string, log zerolog.Logger) (*pgxpool.Pool, error) {
	if dbCfg.URL == "" {
		return nil, errors.New("database URL is empty")
	}

	if dbCfg.RunMigrations {
		applied, err := migrateUp(ctx, dbCfg)
		if err != nil {
			return nil, fmt.Errorf("running migrations: %w", err)
		}
		if applied > 0 {
			log.Info().Int("applied", applied).Msg("migrations executed")
		}
	}

	poolCfg, err := pgxpool.ParseConfig(dbCfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MaxConns = dbCfg.MaxConns
	poolCfg.MaxConnIdleTime = dbCfg.MaxConnIdleTime
	poolCfg.MaxConnLifetime = dbCfg.MaxConnLifetime
	if poolCfg.ConnConfig.RuntimeParams == nil {
		poolCfg.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolCfg.ConnConfig.RuntimeParams["application_name"] = appName
	poolCfg.ConnConfig.RuntimeParams["timezone"] = "UTC"

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// migrateUp runs the file-based migrations through the pgx stdlib driver,
// which sql-migrate requires.
func migrateUp(ctx context.Context, dbCfg config.DatabaseConfig) (int, error) {
	conn, err := sql.Open("pgx", dbCfg.URL)
	if err != nil {
		return 0, fmt.Errorf("opening sql connection: %w", err)
	}
	defer conn.Close()

	migrate.SetTable(migrationTable)
	source := &migrate.FileMigrationSource{Dir: dbCfg.MigrationsDir}
	return migrate.ExecContext(ctx, conn, "postgres", source, migrate.Up)
}
