package loan

import (
	"context"

	"github.com/shopspring/decimal"
)

type LoanRepository interface {
	// Create persists the loan and its full installment schedule.
	Create(ctx context.Context, record LoanRecord) (LoanRecord, error)
	GetByID(ctx context.Context, id string) (LoanRecord, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]LoanRecord, error)
	// PendingInstallmentsForPeriod returns the pending installments of the
	// employee's active loans that fall due in (month, year).
	PendingInstallmentsForPeriod(ctx context.Context, employeeID string, month, year int) ([]LoanInstallment, error)
	// MarkInstallmentPaid flips the installment to paid, increments the owning
	// loan's paid count, reduces its remaining balance by amount, and completes
	// the loan when every installment is paid.
	MarkInstallmentPaid(ctx context.Context, installmentID string, payRunID string, amount decimal.Decimal) error
	CancelLoan(ctx context.Context, id string) error
}
