package rates

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/rates"
)

type fakeRateRepo struct {
	created *rates.RateSet
	sets    []rates.RateSet
}

func (f *fakeRateRepo) Create(ctx context.Context, set rates.RateSet) (rates.RateSet, error) {
	f.created = &set
	return set, nil
}

func (f *fakeRateRepo) GetEffective(ctx context.Context, date time.Time) (rates.RateSet, error) {
	for i := len(f.sets) - 1; i >= 0; i-- {
		if !f.sets[i].EffectiveFrom.After(date) {
			return f.sets[i], nil
		}
	}
	return rates.RateSet{}, rates.ErrNoRateSetForDate
}

func (f *fakeRateRepo) GetByID(ctx context.Context, id string) (rates.RateSet, error) {
	for _, set := range f.sets {
		if set.ID == id {
			return set, nil
		}
	}
	return rates.RateSet{}, rates.ErrRateSetNotFound
}

func (f *fakeRateRepo) List(ctx context.Context) ([]rates.RateSet, error) {
	return f.sets, nil
}

func validCreateRequest() rates.CreateRateSetRequest {
	upper := decimal.NewFromInt(15000)
	return rates.CreateRateSetRequest{
		EffectiveFrom:   "2025-04-01",
		PFRate:          decimal.NewFromInt(12),
		PFWageCeiling:   decimal.NewFromInt(15000),
		ESIRate:         decimal.NewFromFloat(0.75),
		ESIEmployerRate: decimal.NewFromFloat(3.25),
		ESIWageCeiling:  decimal.NewFromInt(21000),
		PTSlabs: []rates.PTSlabRequest{
			{LowerBound: decimal.Zero, UpperBound: &upper, Amount: decimal.Zero},
			{LowerBound: decimal.NewFromInt(15000), Amount: decimal.NewFromInt(200)},
		},
	}
}

func TestRateServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates rate set with slabs", func(t *testing.T) {
		repo := &fakeRateRepo{}
		svc := NewRateService(repo)

		resp, err := svc.Create(ctx, validCreateRequest())
		require.NoError(t, err)

		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, "2025-04-01", resp.EffectiveFrom)
		require.NotNil(t, repo.created)
		assert.Equal(t, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), repo.created.EffectiveFrom)
		require.Len(t, repo.created.PTSlabs, 2)
		for _, slab := range repo.created.PTSlabs {
			assert.NotEmpty(t, slab.ID)
			assert.Equal(t, repo.created.ID, slab.RateSetID)
		}
	})

	t.Run("rejects malformed effective date without touching the repository", func(t *testing.T) {
		repo := &fakeRateRepo{}
		svc := NewRateService(repo)

		req := validCreateRequest()
		req.EffectiveFrom = "01-04-2025"

		_, err := svc.Create(ctx, req)
		require.Error(t, err)
		assert.Nil(t, repo.created)
	})
}

func TestRateServiceGet(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRateRepo{sets: []rates.RateSet{
		{ID: "set-1", EffectiveFrom: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "set-2", EffectiveFrom: time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)},
	}}
	svc := NewRateService(repo)

	t.Run("returns set in force on the date", func(t *testing.T) {
		resp, err := svc.Get(ctx, "2025-03-31")
		require.NoError(t, err)
		assert.Equal(t, "set-1", resp.ID)
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		_, err := svc.Get(ctx, "not-a-date")
		require.Error(t, err)
	})

	t.Run("no covering set", func(t *testing.T) {
		_, err := svc.Get(ctx, "2023-01-01")
		assert.ErrorIs(t, err, rates.ErrNoRateSetForDate)
	})
}
