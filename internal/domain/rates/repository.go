package rates

import (
	"context"
	"time"
)

type RateRepository interface {
	Create(ctx context.Context, set RateSet) (RateSet, error)
	// GetEffective returns the latest rate set whose effective date is on or
	// before the given date, with its PT slabs loaded in slab order.
	GetEffective(ctx context.Context, date time.Time) (RateSet, error)
	GetByID(ctx context.Context, id string) (RateSet, error)
	List(ctx context.Context) ([]RateSet, error)
}
