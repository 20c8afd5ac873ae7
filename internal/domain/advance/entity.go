package advance

import (
	"time"

	"github.com/shopspring/decimal"
)

type AdvanceStatus string

const (
	AdvanceStatusPending  AdvanceStatus = "pending"
	AdvanceStatusPartial  AdvanceStatus = "partial"
	AdvanceStatusDeducted AdvanceStatus = "deducted"
)

// AdvanceRecord is a salary advance paid out in one period and recovered in a
// scheduled later period. Only pay-run processing mutates it.
type AdvanceRecord struct {
	ID              string
	EmployeeID      string
	Amount          decimal.Decimal
	PaidMonth       int
	PaidYear        int
	RecoveryMonth   int
	RecoveryYear    int
	RemainingAmount decimal.Decimal
	Status          AdvanceStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
