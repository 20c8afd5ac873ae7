package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "active"
	LoanStatusCompleted LoanStatus = "completed"
	LoanStatusCancelled LoanStatus = "cancelled"
)

type InstallmentStatus string

const (
	InstallmentStatusPending InstallmentStatus = "pending"
	InstallmentStatusPaid    InstallmentStatus = "paid"
)

// LoanInstallment is one month of a loan's schedule. Installments are
// generated once at loan approval and never regenerated; only Status mutates,
// and only through pay-run processing.
type LoanInstallment struct {
	ID          string
	LoanID      string
	Sequence    int // 1-based position in the schedule
	Amount      decimal.Decimal
	DueMonth    int
	DueYear     int
	Status      InstallmentStatus
	PaidAt      *time.Time
	PaidInRunID *string
}

// LoanRecord is an approved employee loan with its simple-interest terms.
type LoanRecord struct {
	ID                string
	EmployeeID        string
	Principal         decimal.Decimal
	AnnualRatePercent decimal.Decimal
	InstallmentCount  int
	InstallmentAmount decimal.Decimal
	TotalPayable      decimal.Decimal
	StartMonth        int
	StartYear         int
	PaidInstallments  int
	RemainingBalance  decimal.Decimal
	Status            LoanStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Installments []LoanInstallment
}
