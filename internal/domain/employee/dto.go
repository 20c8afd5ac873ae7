package employee

import (
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type SetSalaryStructureRequest struct {
	EmployeeID             string          `json:"-"`
	CTC                    decimal.Decimal `json:"ctc"`
	BasicPercent           decimal.Decimal `json:"basic_percent"`
	HRAPercent             decimal.Decimal `json:"hra_percent"`
	Conveyance             decimal.Decimal `json:"conveyance"`
	Telephone              decimal.Decimal `json:"telephone"`
	Medical                decimal.Decimal `json:"medical"`
	OtherAllowances        decimal.Decimal `json:"other_allowances"`
	EmployerContribution   decimal.Decimal `json:"employer_contribution"`
	TDS                    decimal.Decimal `json:"tds"`
	IncludesProvidentFund  bool            `json:"includes_provident_fund"`
	IncludesStateInsurance bool            `json:"includes_state_insurance"`
	PaymentMode            string          `json:"payment_mode"`
	EffectiveFrom          string          `json:"effective_from"` // YYYY-MM-DD
}

func (r *SetSalaryStructureRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.CTC.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "ctc", Message: "must be positive"})
	}
	if r.BasicPercent.IsNegative() || r.BasicPercent.GreaterThan(decimal.NewFromInt(100)) {
		errs = append(errs, validator.ValidationError{Field: "basic_percent", Message: "must be between 0 and 100"})
	}
	if r.HRAPercent.IsNegative() || r.HRAPercent.GreaterThan(decimal.NewFromInt(100)) {
		errs = append(errs, validator.ValidationError{Field: "hra_percent", Message: "must be between 0 and 100"})
	}
	for _, f := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"conveyance", r.Conveyance},
		{"telephone", r.Telephone},
		{"medical", r.Medical},
		{"other_allowances", r.OtherAllowances},
		{"employer_contribution", r.EmployerContribution},
		{"tds", r.TDS},
	} {
		if f.value.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: f.name, Message: "must be non-negative"})
		}
	}
	if !validator.IsInSlice(r.PaymentMode, []string{
		string(PaymentModeBankTransfer), string(PaymentModeCheque), string(PaymentModeCash),
	}) {
		errs = append(errs, validator.ValidationError{Field: "payment_mode", Message: "must be 'bank_transfer', 'cheque' or 'cash'"})
	}
	if _, ok := validator.IsValidDate(r.EffectiveFrom); !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_from", Message: "must be a valid date (YYYY-MM-DD)"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SalaryStructureResponse struct {
	ID                     string          `json:"id"`
	EmployeeID             string          `json:"employee_id"`
	CTC                    decimal.Decimal `json:"ctc"`
	BasicPercent           decimal.Decimal `json:"basic_percent"`
	HRAPercent             decimal.Decimal `json:"hra_percent"`
	Conveyance             decimal.Decimal `json:"conveyance"`
	Telephone              decimal.Decimal `json:"telephone"`
	Medical                decimal.Decimal `json:"medical"`
	OtherAllowances        decimal.Decimal `json:"other_allowances"`
	EmployerContribution   decimal.Decimal `json:"employer_contribution"`
	TDS                    decimal.Decimal `json:"tds"`
	IncludesProvidentFund  bool            `json:"includes_provident_fund"`
	IncludesStateInsurance bool            `json:"includes_state_insurance"`
	PaymentMode            string          `json:"payment_mode"`
	EffectiveFrom          string          `json:"effective_from"`
}
