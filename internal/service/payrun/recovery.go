package payrun

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payrun"
	"github.com/shopspring/decimal"
)

// recoveries is the outcome of matching an employee's outstanding obligations
// against a period: amounts to withhold plus the exact source records touched,
// so processing later mutates only what generation saw.
type recoveries struct {
	advanceDeduction    decimal.Decimal
	loanDeduction       decimal.Decimal
	touchedAdvances     []payrun.AdvanceTouch
	touchedInstallments []payrun.InstallmentTouch
}

// matchRecoveries is a read-only query; source records are mutated only when
// the owning pay run is processed, never while it is still a draft.
func (s *PayRunServiceImpl) matchRecoveries(ctx context.Context, employeeID string, month, year int) (recoveries, error) {
	var r recoveries
	r.advanceDeduction = decimal.Zero
	r.loanDeduction = decimal.Zero

	advances, err := s.advanceRepo.RecoverableForPeriod(ctx, employeeID, month, year)
	if err != nil {
		return recoveries{}, fmt.Errorf("failed to match advances: %w", err)
	}
	for _, adv := range advances {
		r.advanceDeduction = r.advanceDeduction.Add(adv.RemainingAmount)
		r.touchedAdvances = append(r.touchedAdvances, payrun.AdvanceTouch{
			AdvanceID: adv.ID,
			Amount:    adv.RemainingAmount,
		})
	}

	installments, err := s.loanRepo.PendingInstallmentsForPeriod(ctx, employeeID, month, year)
	if err != nil {
		return recoveries{}, fmt.Errorf("failed to match loan installments: %w", err)
	}
	for _, inst := range installments {
		r.loanDeduction = r.loanDeduction.Add(inst.Amount)
		r.touchedInstallments = append(r.touchedInstallments, payrun.InstallmentTouch{
			InstallmentID: inst.ID,
			Amount:        inst.Amount,
		})
	}

	return r, nil
}
