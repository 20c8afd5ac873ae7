package payrun

import (
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payrun"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/rates"
	"github.com/shopspring/decimal"
)

// ComputeDeductions applies the statutory rate set to resolved earnings.
// ESI eligibility depends on gross, so earnings must be fully resolved before
// this runs. Eligibility is re-evaluated every period: a gross at or above the
// ceiling zeroes ESI for that period regardless of past periods.
func ComputeDeductions(e payrun.Earnings, s employee.SalaryStructure, rs rates.RateSet) payrun.StatutoryDeductions {
	var d payrun.StatutoryDeductions

	if s.IncludesProvidentFund {
		eligibleWage := decimal.Min(e.Basic, rs.PFWageCeiling)
		pf := eligibleWage.Mul(rs.PFRate).Div(hundred).Round(2)
		d.PFEmployee = pf
		d.PFEmployer = pf
	}

	// strict less-than: gross at the ceiling is not eligible
	if s.IncludesStateInsurance && e.Gross.LessThan(rs.ESIWageCeiling) {
		d.ESIEmployee = e.Gross.Mul(rs.ESIRate).Div(hundred).Round(2)
		d.ESIEmployer = e.Gross.Mul(rs.ESIEmployerRate).Div(hundred).Round(2)
	}

	d.ProfessionalTax = rs.ProfessionalTax(e.Gross)

	return d
}
