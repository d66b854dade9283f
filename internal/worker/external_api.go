package worker

import (
	"context"
	"time"

	"github.com/Lutefd/nbu-rates/internal/model"
)

// ExternalAPIClient returns the full currency snapshot published for day.
type ExternalAPIClient interface {
	FetchRates(ctx context.Context, day time.Time) ([]model.ProviderRate, error)
}
