package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Lutefd/nbu-rates/internal/model"
	_ "github.com/lib/pq"
)

const (
	insertLogQuery     = `INSERT INTO logs (id, level, message, timestamp, source) VALUES ($1, $2, $3, $4, $5)`
	createPartitionDDL = `CREATE TABLE IF NOT EXISTS %s PARTITION OF logs FOR VALUES FROM ('%s') TO ('%s')`
)

// PostgresLogRepository mirrors logger entries into the monthly-partitioned
// logs table.
type PostgresLogRepository struct {
	db *sql.DB
}

func NewPostgresLogRepository(connURL string, db *sql.DB) (*PostgresLogRepository, error) {
	if db == nil {
		var err error
		db, err = openPostgres(connURL)
		if err != nil {
			return nil, err
		}
	}

	return &PostgresLogRepository{db: db}, nil
}

func (r *PostgresLogRepository) SaveLog(ctx context.Context, log model.Log) error {
	if _, err := r.db.ExecContext(ctx, insertLogQuery, log.ID, log.Level, log.Message, log.Timestamp, log.Source); err != nil {
		return fmt.Errorf("failed to save log: %w", err)
	}
	return nil
}

func (r *PostgresLogRepository) CreatePartition(ctx context.Context, month time.Time) error {
	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	name := fmt.Sprintf("logs_y%04dm%02d", from.Year(), from.Month())

	query := fmt.Sprintf(createPartitionDDL, name, from.Format(model.DisplayLayout), to.Format(model.DisplayLayout))
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create partition %s: %w", name, err)
	}
	return nil
}

func (r *PostgresLogRepository) Close() error {
	return r.db.Close()
}

func openPostgres(connURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
