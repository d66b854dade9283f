package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/Lutefd/nbu-rates/internal/commons"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS exchange_rates (
		id BIGSERIAL PRIMARY KEY,
		rate_date DATE NOT NULL,
		currency_code CHAR(3) NOT NULL,
		rate NUMERIC(18, 6) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS exchange_rates_rate_date_idx ON exchange_rates (rate_date, currency_code)`,
	`CREATE TABLE IF NOT EXISTS logs (
		id UUID NOT NULL,
		level TEXT NOT NULL,
		message TEXT NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL,
		source TEXT NOT NULL,
		PRIMARY KEY (id, timestamp)
	) PARTITION BY RANGE (timestamp)`,
}

type dependencies struct {
	loadConfig func() (commons.Config, error)
	openDB     func(driverName, dataSourceName string) (*sql.DB, error)
	loadEnv    func(...string) error
}

var defaultDeps = dependencies{
	loadConfig: commons.LoadConfig,
	openDB:     sql.Open,
	loadEnv:    godotenv.Load,
}

func main() {
	if err := run(context.Background(), defaultDeps); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, deps dependencies) error {
	if err := deps.loadEnv(); err != nil {
		log.Printf("Error loading .env file: %v", err)
	}

	config, err := deps.loadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if config.PostgresConn == "" {
		return fmt.Errorf("postgres is not configured: set ROW_SINK=postgres or LOG_TO_POSTGRES=true")
	}

	db, err := deps.openDB("postgres", config.PostgresConn)
	if err != nil {
		return fmt.Errorf("error opening database connection: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("error connecting to the database: %w", err)
	}

	if err := applyMigrations(ctx, db); err != nil {
		return fmt.Errorf("error applying migrations: %w", err)
	}

	fmt.Println("Database schema is up to date!")
	return nil
}

func applyMigrations(ctx context.Context, db *sql.DB) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for i, stmt := range migrations {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return tx.Commit()
}
