package loan

import (
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/loan"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// BuildSchedule computes a loan's installment amount, total payable and
// month-by-month schedule. Interest is simple interest over the full tenure,
// not reducing-balance. The last installment absorbs the rounding remainder so
// that the schedule sums to totalPayable exactly.
func BuildSchedule(principal, annualRatePercent decimal.Decimal, installmentCount, startMonth, startYear int) (installmentAmount, totalPayable decimal.Decimal, schedule []loan.LoanInstallment, err error) {
	if !principal.IsPositive() || installmentCount <= 0 || annualRatePercent.IsNegative() {
		return decimal.Zero, decimal.Zero, nil, loan.ErrInvalidLoanTerms
	}

	interest := principal.Mul(annualRatePercent).Div(hundred)
	totalPayable = principal.Add(interest).Round(2)
	installmentAmount = totalPayable.Div(decimal.NewFromInt(int64(installmentCount))).Round(2)

	schedule = make([]loan.LoanInstallment, 0, installmentCount)
	month, year := startMonth, startYear
	for i := 1; i <= installmentCount; i++ {
		amount := installmentAmount
		if i == installmentCount {
			// remainder adjustment
			amount = totalPayable.Sub(installmentAmount.Mul(decimal.NewFromInt(int64(installmentCount - 1))))
		}
		schedule = append(schedule, loan.LoanInstallment{
			Sequence: i,
			Amount:   amount,
			DueMonth: month,
			DueYear:  year,
			Status:   loan.InstallmentStatusPending,
		})
		month++
		if month > 12 {
			month = 1
			year++
		}
	}

	return installmentAmount, totalPayable, schedule, nil
}
