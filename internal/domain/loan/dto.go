package loan

import (
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateLoanRequest struct {
	EmployeeID        string          `json:"employee_id"`
	Principal         decimal.Decimal `json:"principal"`
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent"`
	InstallmentCount  int             `json:"installment_count"`
	StartMonth        int             `json:"start_month"`
	StartYear         int             `json:"start_year"`
}

func (r *CreateLoanRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !r.Principal.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "principal", Message: "must be positive"})
	}
	if r.AnnualRatePercent.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "annual_rate_percent", Message: "must be non-negative"})
	}
	if r.InstallmentCount <= 0 {
		errs = append(errs, validator.ValidationError{Field: "installment_count", Message: "must be positive"})
	}
	if !validator.IsValidPeriod(r.StartMonth, r.StartYear) {
		errs = append(errs, validator.ValidationError{Field: "start_month", Message: "start period is invalid"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type InstallmentResponse struct {
	ID       string          `json:"id"`
	Sequence int             `json:"sequence"`
	Amount   decimal.Decimal `json:"amount"`
	DueMonth int             `json:"due_month"`
	DueYear  int             `json:"due_year"`
	Status   string          `json:"status"`
}

type LoanResponse struct {
	ID                string                `json:"id"`
	EmployeeID        string                `json:"employee_id"`
	Principal         decimal.Decimal       `json:"principal"`
	AnnualRatePercent decimal.Decimal       `json:"annual_rate_percent"`
	InstallmentCount  int                   `json:"installment_count"`
	InstallmentAmount decimal.Decimal       `json:"installment_amount"`
	TotalPayable      decimal.Decimal       `json:"total_payable"`
	StartMonth        int                   `json:"start_month"`
	StartYear         int                   `json:"start_year"`
	PaidInstallments  int                   `json:"paid_installments"`
	RemainingBalance  decimal.Decimal       `json:"remaining_balance"`
	Status            string                `json:"status"`
	Installments      []InstallmentResponse `json:"installments,omitempty"`
}
