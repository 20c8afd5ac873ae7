package rates

import (
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type PTSlabRequest struct {
	LowerBound decimal.Decimal  `json:"lower_bound"`
	UpperBound *decimal.Decimal `json:"upper_bound,omitempty"`
	Amount     decimal.Decimal  `json:"amount"`
}

type CreateRateSetRequest struct {
	EffectiveFrom   string          `json:"effective_from"` // YYYY-MM-DD
	PFRate          decimal.Decimal `json:"pf_rate"`
	PFWageCeiling   decimal.Decimal `json:"pf_wage_ceiling"`
	ESIRate         decimal.Decimal `json:"esi_rate"`
	ESIEmployerRate decimal.Decimal `json:"esi_employer_rate"`
	ESIWageCeiling  decimal.Decimal `json:"esi_wage_ceiling"`
	PTSlabs         []PTSlabRequest `json:"pt_slabs"`
}

func (r *CreateRateSetRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.EffectiveFrom); !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_from", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if r.PFRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "pf_rate", Message: "must be non-negative"})
	}
	if !r.PFWageCeiling.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "pf_wage_ceiling", Message: "must be positive"})
	}
	if r.ESIRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "esi_rate", Message: "must be non-negative"})
	}
	if r.ESIEmployerRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "esi_employer_rate", Message: "must be non-negative"})
	}
	if !r.ESIWageCeiling.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "esi_wage_ceiling", Message: "must be positive"})
	}

	prev := decimal.NewFromInt(-1)
	for i, slab := range r.PTSlabs {
		if slab.LowerBound.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "pt_slabs", Message: "lower bounds must be non-negative"})
			break
		}
		if slab.LowerBound.LessThanOrEqual(prev) {
			errs = append(errs, validator.ValidationError{Field: "pt_slabs", Message: "slabs must be ordered by ascending lower bound"})
			break
		}
		if slab.UpperBound != nil && slab.UpperBound.LessThan(slab.LowerBound) {
			errs = append(errs, validator.ValidationError{Field: "pt_slabs", Message: "upper bound must not be below lower bound"})
			break
		}
		if slab.UpperBound == nil && i != len(r.PTSlabs)-1 {
			errs = append(errs, validator.ValidationError{Field: "pt_slabs", Message: "only the last slab may be open-ended"})
			break
		}
		if slab.Amount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "pt_slabs", Message: "amounts must be non-negative"})
			break
		}
		prev = slab.LowerBound
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PTSlabResponse struct {
	LowerBound decimal.Decimal  `json:"lower_bound"`
	UpperBound *decimal.Decimal `json:"upper_bound,omitempty"`
	Amount     decimal.Decimal  `json:"amount"`
}

type RateSetResponse struct {
	ID              string           `json:"id"`
	EffectiveFrom   string           `json:"effective_from"`
	PFRate          decimal.Decimal  `json:"pf_rate"`
	PFWageCeiling   decimal.Decimal  `json:"pf_wage_ceiling"`
	ESIRate         decimal.Decimal  `json:"esi_rate"`
	ESIEmployerRate decimal.Decimal  `json:"esi_employer_rate"`
	ESIWageCeiling  decimal.Decimal  `json:"esi_wage_ceiling"`
	PTSlabs         []PTSlabResponse `json:"pt_slabs"`
}
