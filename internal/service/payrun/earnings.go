package payrun

import (
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payrun"
	"github.com/shopspring/decimal"
)

var (
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// ResolveEarnings expands an annual salary structure into monthly earning
// components. The special allowance is the balancing term that makes the fixed
// components plus the employer-side contribution equal one month of CTC; a
// negative balance signals a data-entry error and fails the resolution rather
// than being clamped.
func ResolveEarnings(s employee.SalaryStructure) (payrun.Earnings, error) {
	monthlyCTC := s.CTC.Div(twelve)

	basic := s.CTC.Mul(s.BasicPercent).Div(hundred).Div(twelve).Round(2)
	hra := basic.Mul(s.HRAPercent).Div(hundred).Round(2)

	specialAllowance := monthlyCTC.
		Sub(basic).
		Sub(hra).
		Sub(s.Conveyance).
		Sub(s.Telephone).
		Sub(s.Medical).
		Sub(s.EmployerContribution).
		Round(2)
	if specialAllowance.IsNegative() {
		return payrun.Earnings{}, payrun.ErrInconsistentSalaryStructure
	}

	gross := basic.
		Add(hra).
		Add(s.Conveyance).
		Add(s.Telephone).
		Add(s.Medical).
		Add(specialAllowance).
		Add(s.OtherAllowances)

	return payrun.Earnings{
		Basic:            basic,
		HRA:              hra,
		Conveyance:       s.Conveyance,
		Telephone:        s.Telephone,
		Medical:          s.Medical,
		SpecialAllowance: specialAllowance,
		OtherAllowances:  s.OtherAllowances,
		Gross:            gross,
	}, nil
}
