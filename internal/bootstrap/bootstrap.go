package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/Lutefd/nbu-rates/internal/cache"
	"github.com/Lutefd/nbu-rates/internal/commons"
	"github.com/Lutefd/nbu-rates/internal/repository"
	"github.com/Lutefd/nbu-rates/internal/service"
	"github.com/Lutefd/nbu-rates/internal/worker"
)

// Dependencies holds everything a binary needs to serve rate updates.
// LogRepo is nil unless Postgres logging is enabled.
type Dependencies struct {
	RateService *service.RateService
	Provider    worker.ExternalAPIClient
	Sink        repository.RowSink
	Cache       cache.Cache
	LogRepo     repository.LogRepository
}

func Init(config commons.Config) (*Dependencies, error) {
	deps := &Dependencies{Cache: cache.NoopCache{}}

	sink, err := newRowSink(config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize row sink: %w", err)
	}
	deps.Sink = sink

	if config.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(config.RedisAddr, config.RedisPass)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("failed to initialize cache: %w", err)
		}
		deps.Cache = redisCache
	}

	if config.LogToPostgres {
		logRepo, err := repository.NewPostgresLogRepository(config.PostgresConn, nil)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("failed to initialize log repository: %w", err)
		}
		deps.LogRepo = logRepo
	}

	deps.Provider = worker.NewNBUClient(
		worker.WithBaseURL(config.NBUBaseURL),
		worker.WithTimeout(config.NBUTimeout),
	)
	deps.RateService = service.NewRateService(deps.Provider, deps.Sink,
		service.WithCache(deps.Cache, config.RateCacheTTL),
		service.WithSinkTimeout(config.SinkTimeout),
		service.WithClock(clockIn(config.Location)),
	)
	return deps, nil
}

func newRowSink(config commons.Config) (repository.RowSink, error) {
	switch config.RowSink {
	case commons.RowSinkPostgres:
		return repository.NewPostgresRateRepository(config.PostgresConn, nil)
	case commons.RowSinkSheets, "":
		return repository.NewSheetsRowSink(config.CredentialsFile, config.SheetsDocument, config.SpreadsheetID), nil
	default:
		return nil, fmt.Errorf("unknown row sink %q", config.RowSink)
	}
}

func clockIn(loc *time.Location) func() time.Time {
	if loc == nil {
		return time.Now
	}
	return func() time.Time {
		return time.Now().In(loc)
	}
}

// Close releases every dependency that was opened; the log repository is
// left to logger.Shutdown once it has been handed to the logger.
func (d *Dependencies) Close() error {
	var errs []error
	if d.Sink != nil {
		if err := d.Sink.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close row sink: %w", err))
		}
	}
	if d.Cache != nil {
		if err := d.Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close cache: %w", err))
		}
	}
	return errors.Join(errs...)
}
