package advance

import (
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateAdvanceRequest struct {
	EmployeeID    string          `json:"employee_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaidMonth     int             `json:"paid_month"`
	PaidYear      int             `json:"paid_year"`
	RecoveryMonth int             `json:"recovery_month"`
	RecoveryYear  int             `json:"recovery_year"`
}

func (r *CreateAdvanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be positive"})
	}
	if !validator.IsValidPeriod(r.PaidMonth, r.PaidYear) {
		errs = append(errs, validator.ValidationError{Field: "paid_month", Message: "paid period is invalid"})
	}
	if !validator.IsValidPeriod(r.RecoveryMonth, r.RecoveryYear) {
		errs = append(errs, validator.ValidationError{Field: "recovery_month", Message: "recovery period is invalid"})
	} else if r.RecoveryYear < r.PaidYear || (r.RecoveryYear == r.PaidYear && r.RecoveryMonth < r.PaidMonth) {
		errs = append(errs, validator.ValidationError{Field: "recovery_month", Message: "recovery period must not precede payment period"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AdvanceResponse struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employee_id"`
	Amount          decimal.Decimal `json:"amount"`
	PaidMonth       int             `json:"paid_month"`
	PaidYear        int             `json:"paid_year"`
	RecoveryMonth   int             `json:"recovery_month"`
	RecoveryYear    int             `json:"recovery_year"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Status          string          `json:"status"`
}
