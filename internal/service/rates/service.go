package rates

import (
	"context"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/rates"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/google/uuid"
)

type RateServiceImpl struct {
	rateRepo rates.RateRepository
}

func NewRateService(rateRepo rates.RateRepository) rates.RateService {
	return &RateServiceImpl{rateRepo: rateRepo}
}

func (s *RateServiceImpl) Create(ctx context.Context, req rates.CreateRateSetRequest) (rates.RateSetResponse, error) {
	if err := req.Validate(); err != nil {
		return rates.RateSetResponse{}, err
	}

	effectiveFrom, err := time.Parse("2006-01-02", req.EffectiveFrom)
	if err != nil {
		return rates.RateSetResponse{}, err
	}

	set := rates.RateSet{
		ID:              uuid.NewString(),
		EffectiveFrom:   effectiveFrom,
		PFRate:          req.PFRate,
		PFWageCeiling:   req.PFWageCeiling,
		ESIRate:         req.ESIRate,
		ESIEmployerRate: req.ESIEmployerRate,
		ESIWageCeiling:  req.ESIWageCeiling,
	}
	for _, slab := range req.PTSlabs {
		set.PTSlabs = append(set.PTSlabs, rates.PTSlab{
			ID:         uuid.NewString(),
			RateSetID:  set.ID,
			LowerBound: slab.LowerBound,
			UpperBound: slab.UpperBound,
			Amount:     slab.Amount,
		})
	}

	created, err := s.rateRepo.Create(ctx, set)
	if err != nil {
		return rates.RateSetResponse{}, err
	}

	return mapToResponse(created), nil
}

func (s *RateServiceImpl) Resolve(ctx context.Context, date time.Time) (rates.RateSet, error) {
	return s.rateRepo.GetEffective(ctx, date)
}

// Get resolves the rate set in force on the given date. An empty date string
// means today.
func (s *RateServiceImpl) Get(ctx context.Context, dateStr string) (rates.RateSetResponse, error) {
	date := time.Now()
	if dateStr != "" {
		var err error
		date, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			return rates.RateSetResponse{}, validator.ValidationErrors{
				{Field: "date", Message: "must be a valid date (YYYY-MM-DD)"},
			}
		}
	}

	set, err := s.rateRepo.GetEffective(ctx, date)
	if err != nil {
		return rates.RateSetResponse{}, err
	}

	return mapToResponse(set), nil
}

func (s *RateServiceImpl) List(ctx context.Context) ([]rates.RateSetResponse, error) {
	sets, err := s.rateRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]rates.RateSetResponse, 0, len(sets))
	for _, set := range sets {
		result = append(result, mapToResponse(set))
	}
	return result, nil
}

func mapToResponse(set rates.RateSet) rates.RateSetResponse {
	resp := rates.RateSetResponse{
		ID:              set.ID,
		EffectiveFrom:   set.EffectiveFrom.Format("2006-01-02"),
		PFRate:          set.PFRate,
		PFWageCeiling:   set.PFWageCeiling,
		ESIRate:         set.ESIRate,
		ESIEmployerRate: set.ESIEmployerRate,
		ESIWageCeiling:  set.ESIWageCeiling,
	}
	for _, slab := range set.PTSlabs {
		resp.PTSlabs = append(resp.PTSlabs, rates.PTSlabResponse{
			LowerBound: slab.LowerBound,
			UpperBound: slab.UpperBound,
			Amount:     slab.Amount,
		})
	}
	return resp
}
