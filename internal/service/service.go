package service

import (
	"context"

	"github.com/Lutefd/nbu-rates/internal/model"
)

type RateServiceInterface interface {
	UpdateRates(ctx context.Context, from, to string) (*model.UpdateResult, error)
	CheckProvider(ctx context.Context) (*model.ProviderCheck, error)
}
