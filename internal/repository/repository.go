package repository

import (
	"context"
	"time"

	"github.com/Lutefd/nbu-rates/internal/model"
)

// RowSink is an append-only tabular store for rate rows. AppendRows writes
// the whole batch or reports an error.
type RowSink interface {
	AppendRows(ctx context.Context, records []model.RateRecord) error
	Close() error
}

type LogRepository interface {
	SaveLog(ctx context.Context, log model.Log) error
	CreatePartition(ctx context.Context, month time.Time) error
	Close() error
}
