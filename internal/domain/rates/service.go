package rates

import (
	"context"
	"time"
)

type RateService interface {
	Create(ctx context.Context, req CreateRateSetRequest) (RateSetResponse, error)
	// Resolve returns the rate set in force on the given date.
	Resolve(ctx context.Context, date time.Time) (RateSet, error)
	Get(ctx context.Context, dateStr string) (RateSetResponse, error)
	List(ctx context.Context) ([]RateSetResponse, error)
}
