package payrun

import (
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type GeneratePayRunRequest struct {
	PeriodMonth int `json:"period_month"`
	PeriodYear  int `json:"period_year"`
}

func (r *GeneratePayRunRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PeriodMonth < 1 || r.PeriodMonth > 12 {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}
	if r.PeriodYear < 2000 {
		errs = append(errs, validator.ValidationError{Field: "period_year", Message: "must be 2000 or later"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeRecordResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeCode string `json:"employee_code"`
	EmployeeName string `json:"employee_name"`
	Department   string `json:"department"`
	Designation  string `json:"designation"`
	PaymentMode  string `json:"payment_mode"`

	Basic            decimal.Decimal `json:"basic"`
	HRA              decimal.Decimal `json:"hra"`
	Conveyance       decimal.Decimal `json:"conveyance"`
	Telephone        decimal.Decimal `json:"telephone"`
	Medical          decimal.Decimal `json:"medical"`
	SpecialAllowance decimal.Decimal `json:"special_allowance"`
	OtherAllowances  decimal.Decimal `json:"other_allowances"`
	Gross            decimal.Decimal `json:"gross"`

	TotalWorkingDays    int  `json:"total_working_days"`
	PayableDays         int  `json:"payable_days"`
	LossOfPayDays       int  `json:"loss_of_pay_days"`
	AttendanceDefaulted bool `json:"attendance_defaulted"`

	LossOfPayAmount decimal.Decimal `json:"loss_of_pay_amount"`
	ProratedGross   decimal.Decimal `json:"prorated_gross"`

	PFEmployee       decimal.Decimal `json:"pf_employee"`
	PFEmployer       decimal.Decimal `json:"pf_employer"`
	ESIEmployee      decimal.Decimal `json:"esi_employee"`
	ESIEmployer      decimal.Decimal `json:"esi_employer"`
	ProfessionalTax  decimal.Decimal `json:"professional_tax"`
	TDS              decimal.Decimal `json:"tds"`
	AdvanceDeduction decimal.Decimal `json:"advance_deduction"`
	LoanDeduction    decimal.Decimal `json:"loan_deduction"`

	NetPay decimal.Decimal `json:"net_pay"`
}

type ExclusionResponse struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Reason       string `json:"reason"`
}

type PayRunResponse struct {
	ID              string                   `json:"id"`
	PeriodMonth     int                      `json:"period_month"`
	PeriodYear      int                      `json:"period_year"`
	Status          string                   `json:"status"`
	EmployeeCount   int                      `json:"employee_count"`
	TotalGross      decimal.Decimal          `json:"total_gross"`
	TotalDeductions decimal.Decimal          `json:"total_deductions"`
	TotalNet        decimal.Decimal          `json:"total_net"`
	GeneratedAt     string                   `json:"generated_at"`
	ApprovedAt      *string                  `json:"approved_at,omitempty"`
	ProcessedAt     *string                  `json:"processed_at,omitempty"`
	CancelledAt     *string                  `json:"cancelled_at,omitempty"`
	Records         []EmployeeRecordResponse `json:"records,omitempty"`
	Exclusions      []ExclusionResponse      `json:"exclusions,omitempty"`
}

type PayRunSummaryResponse struct {
	ID            string          `json:"id"`
	PeriodMonth   int             `json:"period_month"`
	PeriodYear    int             `json:"period_year"`
	Status        string          `json:"status"`
	EmployeeCount int             `json:"employee_count"`
	TotalNet      decimal.Decimal `json:"total_net"`
	GeneratedAt   string          `json:"generated_at"`
}

// RegisterRow is one line of the exported pay-run register.
type RegisterRow struct {
	EmployeeID   string          `json:"employee_id"`
	EmployeeCode string          `json:"employee_code"`
	EmployeeName string          `json:"employee_name"`
	Department   string          `json:"department"`
	Designation  string          `json:"designation"`

	Basic            decimal.Decimal `json:"basic"`
	HRA              decimal.Decimal `json:"hra"`
	Conveyance       decimal.Decimal `json:"conveyance"`
	Telephone        decimal.Decimal `json:"telephone"`
	Medical          decimal.Decimal `json:"medical"`
	SpecialAllowance decimal.Decimal `json:"special_allowance"`
	OtherAllowances  decimal.Decimal `json:"other_allowances"`
	Gross            decimal.Decimal `json:"gross"`

	TotalWorkingDays int `json:"total_working_days"`
	PayableDays      int `json:"payable_days"`
	LossOfPayDays    int `json:"loss_of_pay_days"`

	LossOfPayAmount  decimal.Decimal `json:"loss_of_pay_amount"`
	PFEmployee       decimal.Decimal `json:"pf_employee"`
	ESIEmployee      decimal.Decimal `json:"esi_employee"`
	ProfessionalTax  decimal.Decimal `json:"professional_tax"`
	TDS              decimal.Decimal `json:"tds"`
	AdvanceDeduction decimal.Decimal `json:"advance_deduction"`
	LoanDeduction    decimal.Decimal `json:"loan_deduction"`

	NetPay decimal.Decimal `json:"net_pay"`
}

// RegisterResponse is the tabular view of a pay run: one row per employee and
// a totals footer summing every numeric column.
type RegisterResponse struct {
	PayRunID    string        `json:"pay_run_id"`
	PeriodMonth int           `json:"period_month"`
	PeriodYear  int           `json:"period_year"`
	Rows        []RegisterRow `json:"rows"`
	Totals      RegisterRow   `json:"totals"`
}
