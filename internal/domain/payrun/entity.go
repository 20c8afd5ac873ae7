package payrun

import (
	"time"

	"github.com/shopspring/decimal"
)

type PayRunStatus string

const (
	PayRunStatusDraft     PayRunStatus = "draft"
	PayRunStatusApproved  PayRunStatus = "approved"
	PayRunStatusProcessed PayRunStatus = "processed"
	PayRunStatusCancelled PayRunStatus = "cancelled"
)

// CanTransition encodes the linear status machine:
// draft -> approved -> processed, with cancellation allowed from draft and
// approved only. Nothing leaves processed or cancelled.
func (s PayRunStatus) CanTransition(to PayRunStatus) bool {
	switch s {
	case PayRunStatusDraft:
		return to == PayRunStatusApproved || to == PayRunStatusCancelled
	case PayRunStatusApproved:
		return to == PayRunStatusProcessed || to == PayRunStatusCancelled
	default:
		return false
	}
}

// Earnings is a resolved monthly salary structure.
type Earnings struct {
	Basic            decimal.Decimal
	HRA              decimal.Decimal
	Conveyance       decimal.Decimal
	Telephone        decimal.Decimal
	Medical          decimal.Decimal
	SpecialAllowance decimal.Decimal
	OtherAllowances  decimal.Decimal
	Gross            decimal.Decimal
}

// StatutoryDeductions are the rate-table-driven deductions for one employee
// and period, computed on unprorated entitlement.
type StatutoryDeductions struct {
	PFEmployee      decimal.Decimal
	PFEmployer      decimal.Decimal
	ESIEmployee     decimal.Decimal
	ESIEmployer     decimal.Decimal
	ProfessionalTax decimal.Decimal
}

// EmployeeRecord is the immutable per-employee snapshot inside a pay run.
// Identity fields are captured by value so later employee edits never alter
// historical payroll.
type EmployeeRecord struct {
	ID           string
	PayRunID     string
	EmployeeID   string
	EmployeeCode string
	EmployeeName string
	Department   string
	Designation  string
	PaymentMode  string

	Earnings Earnings

	TotalWorkingDays    int
	PayableDays         int
	LossOfPayDays       int
	AttendanceDefaulted bool // no attendance record existed; full attendance assumed

	LossOfPayAmount decimal.Decimal
	ProratedGross   decimal.Decimal

	Deductions       StatutoryDeductions
	TDS              decimal.Decimal
	AdvanceDeduction decimal.Decimal
	LoanDeduction    decimal.Decimal

	NetPay decimal.Decimal

	// Source records matched at generation time; processing mutates exactly these.
	TouchedAdvances     []AdvanceTouch
	TouchedInstallments []InstallmentTouch
}

// AdvanceTouch links a pay run record to an advance it recovers, with the
// amount withheld for it this period.
type AdvanceTouch struct {
	AdvanceID string
	Amount    decimal.Decimal
}

// InstallmentTouch links a pay run record to a loan installment it collects.
type InstallmentTouch struct {
	InstallmentID string
	Amount        decimal.Decimal
}

// TotalDeductions sums every deduction category of the record.
func (r EmployeeRecord) TotalDeductions() decimal.Decimal {
	return r.Deductions.PFEmployee.
		Add(r.Deductions.ESIEmployee).
		Add(r.Deductions.ProfessionalTax).
		Add(r.TDS).
		Add(r.AdvanceDeduction).
		Add(r.LoanDeduction)
}

// Exclusion records an employee left out of a run, with the reason, so one bad
// record does not block payroll for everyone else.
type Exclusion struct {
	ID           string
	PayRunID     string
	EmployeeID   string
	EmployeeName string
	Reason       string
}

// PayRun is one period's batch. Unique per (month, year) among non-cancelled
// runs. Once created it is an immutable snapshot of the inputs that produced it.
type PayRun struct {
	ID              string
	PeriodMonth     int
	PeriodYear      int
	Status          PayRunStatus
	EmployeeCount   int
	TotalGross      decimal.Decimal
	TotalDeductions decimal.Decimal
	TotalNet        decimal.Decimal
	GeneratedAt     time.Time
	ApprovedAt      *time.Time
	ProcessedAt     *time.Time
	CancelledAt     *time.Time

	Records    []EmployeeRecord
	Exclusions []Exclusion
}
