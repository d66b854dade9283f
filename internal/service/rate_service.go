package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Lutefd/nbu-rates/internal/cache"
	"github.com/Lutefd/nbu-rates/internal/commons"
	"github.com/Lutefd/nbu-rates/internal/logger"
	"github.com/Lutefd/nbu-rates/internal/metrics"
	"github.com/Lutefd/nbu-rates/internal/model"
	"github.com/Lutefd/nbu-rates/internal/repository"
	"github.com/Lutefd/nbu-rates/internal/worker"
	"github.com/shopspring/decimal"
)

type RateService struct {
	provider    worker.ExternalAPIClient
	sink        repository.RowSink
	cache       cache.Cache
	cacheTTL    time.Duration
	sinkTimeout time.Duration
	now         func() time.Time
}

type Option func(*RateService)

func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *RateService) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

func WithSinkTimeout(timeout time.Duration) Option {
	return func(s *RateService) {
		s.sinkTimeout = timeout
	}
}

// WithClock sets the source of "today" used when a date is omitted.
func WithClock(now func() time.Time) Option {
	return func(s *RateService) {
		s.now = now
	}
}

func NewRateService(provider worker.ExternalAPIClient, sink repository.RowSink, opts ...Option) *RateService {
	s := &RateService{
		provider:    provider,
		sink:        sink,
		cache:       cache.NoopCache{},
		cacheTTL:    commons.DefaultRateCacheTTL,
		sinkTimeout: commons.DefaultSinkTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UpdateRates fetches the USD rate for every day in [from, to] and appends
// the rows it found to the sink in a single batch. Per-day failures are
// collected in the result; a run with no rows returns ErrNoDataFound along
// with the result so callers can report them.
func (s *RateService) UpdateRates(ctx context.Context, from, to string) (*model.UpdateResult, error) {
	today := s.now().Format(model.DisplayLayout)
	if from == "" {
		from = today
	}
	if to == "" {
		to = today
	}

	start, err := parseDate(from)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(to)
	if err != nil {
		return nil, err
	}

	period, err := model.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}

	result := &model.UpdateResult{Period: from + " - " + to}
	for _, day := range period.Days() {
		date := day.Format(model.DisplayLayout)
		rate, err := s.fetchUSDRate(ctx, day)
		if err != nil {
			result.AddError(dayErrorMessage(date, err))
			continue
		}
		result.AddRecord(model.NewRateRecord(date, model.CurrencyUSD, rate))
	}

	if len(result.Records) == 0 {
		logger.Errorf("no rates found for period %s", result.Period)
		return result, model.ErrNoDataFound
	}

	sinkCtx, cancel := context.WithTimeout(ctx, s.sinkTimeout)
	defer cancel()
	if err := s.sink.AppendRows(sinkCtx, result.Records); err != nil {
		metrics.SinkFailures.Inc()
		logger.Errorf("failed to append %d rows for period %s: %v", len(result.Records), result.Period, err)
		return nil, fmt.Errorf("%w: %v", model.ErrSink, err)
	}

	metrics.RowsAppended.Add(float64(len(result.Records)))
	logger.Infof("appended %d rows for period %s", len(result.Records), result.Period)
	return result, nil
}

// CheckProvider reports today's snapshot size and USD rate without touching
// the cache or the sink.
func (s *RateService) CheckProvider(ctx context.Context) (*model.ProviderCheck, error) {
	today := s.now()
	rates, err := s.provider.FetchRates(ctx, today)
	if err != nil {
		return nil, err
	}

	check := &model.ProviderCheck{
		Date:            today.Format(model.ProviderLayout),
		TotalCurrencies: len(rates),
	}
	if usd, ok := model.FindRate(rates, model.CurrencyUSD); ok {
		rate := usd.Rate
		check.USDRate = &rate
	}
	return check, nil
}

func (s *RateService) fetchUSDRate(ctx context.Context, day time.Time) (decimal.Decimal, error) {
	key := cacheKey(day)
	rate, err := s.cache.Get(ctx, key)
	if err == nil {
		metrics.DaysFetched.WithLabelValues(metrics.OutcomeCached).Inc()
		return rate, nil
	}
	if !errors.Is(err, cache.ErrKeyNotFound) {
		logger.Errorf("failed to read cached rate %s: %v", key, err)
	}

	rates, err := s.provider.FetchRates(ctx, day)
	if err != nil {
		metrics.DaysFetched.WithLabelValues(outcomeLabel(err)).Inc()
		return decimal.Zero, err
	}

	usd, ok := model.FindRate(rates, model.CurrencyUSD)
	if !ok {
		metrics.DaysFetched.WithLabelValues(metrics.OutcomeNotFound).Inc()
		return decimal.Zero, fmt.Errorf("%w: %s", model.ErrRateNotFound, day.Format(model.DisplayLayout))
	}
	metrics.DaysFetched.WithLabelValues(metrics.OutcomeSuccess).Inc()

	if err := s.cache.Set(ctx, key, usd.Rate, s.cacheTTL); err != nil {
		logger.Errorf("failed to cache rate %s: %v", key, err)
	}
	return usd.Rate, nil
}

func parseDate(value string) (time.Time, error) {
	day, err := time.Parse(model.DisplayLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", model.ErrInvalidDate, value)
	}
	return day, nil
}

func cacheKey(day time.Time) string {
	return "rate:" + model.CurrencyUSD + ":" + day.Format(model.DisplayLayout)
}

func dayErrorMessage(date string, err error) string {
	switch {
	case errors.Is(err, model.ErrRateNotFound):
		return fmt.Sprintf("USD not found for %s", date)
	case errors.Is(err, model.ErrUpstreamTimeout):
		return fmt.Sprintf("timeout for %s", date)
	case errors.Is(err, model.ErrUpstreamRequest):
		return fmt.Sprintf("request failed for %s: %v", date, cause(err))
	default:
		return fmt.Sprintf("unexpected error for %s: %v", date, cause(err))
	}
}

func cause(err error) error {
	var upstream *model.UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Err
	}
	return err
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, model.ErrUpstreamTimeout):
		return metrics.OutcomeTimeout
	case errors.Is(err, model.ErrUpstreamRequest):
		return metrics.OutcomeRequestFailure
	default:
		return metrics.OutcomeUnexpected
	}
}
