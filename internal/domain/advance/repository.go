package advance

import (
	"context"

	"github.com/shopspring/decimal"
)

type AdvanceRepository interface {
	Create(ctx context.Context, record AdvanceRecord) (AdvanceRecord, error)
	GetByID(ctx context.Context, id string) (AdvanceRecord, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]AdvanceRecord, error)
	// RecoverableForPeriod returns the employee's advances whose scheduled
	// recovery period matches (month, year) and which are not fully deducted.
	RecoverableForPeriod(ctx context.Context, employeeID string, month, year int) ([]AdvanceRecord, error)
	// ApplyDeduction reduces the remaining amount by deducted and sets the
	// status to deducted, or partial while a remainder is left.
	ApplyDeduction(ctx context.Context, advanceID string, deducted decimal.Decimal) error
}
