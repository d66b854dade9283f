package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/Lutefd/nbu-rates/internal/logger"
	"github.com/Lutefd/nbu-rates/internal/model"
	"github.com/robfig/cron/v3"
)

type Updater interface {
	UpdateRates(ctx context.Context, from, to string) (*model.UpdateResult, error)
}

// RateUpdater appends the current day's rate on a cron schedule. It only
// ever asks for today; past ranges go through /update_rates.
type RateUpdater struct {
	updater  Updater
	schedule string
	cron     *cron.Cron
}

func NewRateUpdater(updater Updater, schedule string, loc *time.Location) (*RateUpdater, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid update schedule %q: %w", schedule, err)
	}
	if loc == nil {
		loc = time.Local
	}
	return &RateUpdater{
		updater:  updater,
		schedule: schedule,
		cron:     cron.New(cron.WithLocation(loc)),
	}, nil
}

// Start blocks until ctx is cancelled and any running update has returned.
func (ru *RateUpdater) Start(ctx context.Context) {
	_, err := ru.cron.AddFunc(ru.schedule, func() {
		if err := ru.updateRates(ctx); err != nil {
			logger.Errorf("Error updating rates: %v", err)
		}
	})
	if err != nil {
		logger.Errorf("failed to schedule rate updates: %v", err)
		return
	}

	ru.cron.Start()
	logger.Infof("Rate updater scheduled with %q", ru.schedule)

	<-ctx.Done()
	<-ru.cron.Stop().Done()
	logger.Info("Rate updater stopped")
}

func (ru *RateUpdater) updateRates(ctx context.Context) error {
	result, err := ru.updater.UpdateRates(ctx, "", "")
	if err != nil {
		return fmt.Errorf("failed to update rates: %w", err)
	}

	for _, msg := range result.Errors {
		logger.Errorf("rate update for %s: %s", result.Period, msg)
	}
	logger.Infof("Rates updated successfully: %d rows for %s", len(result.Records), result.Period)
	return nil
}
