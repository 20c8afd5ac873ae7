package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMode string

const (
	PaymentModeBankTransfer PaymentMode = "bank_transfer"
	PaymentModeCheque       PaymentMode = "cheque"
	PaymentModeCash         PaymentMode = "cash"
)

// SalaryStructure expands an employee's annual CTC into monthly components.
// Rows are versioned by EffectiveFrom; a revision never rewrites history, it
// adds a new row that applies prospectively. The row a pay run consumed is
// snapshotted into the run, so later revisions cannot alter past payroll.
type SalaryStructure struct {
	ID                     string
	EmployeeID             string
	CTC                    decimal.Decimal // annual cost to company
	BasicPercent           decimal.Decimal // percent of CTC
	HRAPercent             decimal.Decimal // percent of basic
	Conveyance             decimal.Decimal // fixed monthly
	Telephone              decimal.Decimal
	Medical                decimal.Decimal
	OtherAllowances        decimal.Decimal
	EmployerContribution   decimal.Decimal // monthly employer-side amount inside CTC; zero when CTC excludes it
	TDS                    decimal.Decimal // fixed monthly withholding; tax computation is out of scope
	IncludesProvidentFund  bool
	IncludesStateInsurance bool
	PaymentMode            PaymentMode
	EffectiveFrom          time.Time
	CreatedAt              time.Time
}

// Employee is the roster view the pay run consumes: identity fields are
// denormalized here so generation can snapshot them by value.
type Employee struct {
	ID          string
	Code        string
	FullName    string
	Department  string
	Designation string
	Active      bool
	JoinDate    time.Time

	// Current structure, resolved by the roster query for the run date.
	Structure *SalaryStructure
}
