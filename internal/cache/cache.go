package cache

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrKeyNotFound = errors.New("key not found")

type Cache interface {
	Get(ctx context.Context, key string) (decimal.Decimal, error)
	Set(ctx context.Context, key string, value decimal.Decimal, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// NoopCache never stores anything; every Get is a miss.
type NoopCache struct{}

func (NoopCache) Get(ctx context.Context, key string) (decimal.Decimal, error) {
	return decimal.Zero, ErrKeyNotFound
}

func (NoopCache) Set(ctx context.Context, key string, value decimal.Decimal, expiration time.Duration) error {
	return nil
}

func (NoopCache) Delete(ctx context.Context, key string) error {
	return nil
}

func (NoopCache) Close() error {
	return nil
}
