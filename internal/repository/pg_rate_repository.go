package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Lutefd/nbu-rates/internal/model"
)

const insertRateQuery = `INSERT INTO exchange_rates (rate_date, currency_code, rate) VALUES ($1, $2, $3)`

// PostgresRateRepository appends rate rows to the exchange_rates table.
// A batch is written in a single transaction.
type PostgresRateRepository struct {
	db *sql.DB
}

func NewPostgresRateRepository(connURL string, db *sql.DB) (*PostgresRateRepository, error) {
	if db == nil {
		var err error
		db, err = openPostgres(connURL)
		if err != nil {
			return nil, err
		}
	}

	return &PostgresRateRepository{db: db}, nil
}

func (r *PostgresRateRepository) AppendRows(ctx context.Context, records []model.RateRecord) (err error) {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, insertRateQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		if _, err = stmt.ExecContext(ctx, record.Date, record.CurrencyCode, record.Rate.String()); err != nil {
			return fmt.Errorf("failed to insert rate for %s: %w", record.Date, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rates: %w", err)
	}
	return nil
}

func (r *PostgresRateRepository) Close() error {
	return r.db.Close()
}
