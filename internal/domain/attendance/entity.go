package attendance

import (
	"time"
)

// MonthlyRecord is the attendance outcome for one employee and period, written
// by the external attendance-entry workflow. The payroll engine only reads it.
// One record exists per (employee, month, year).
type MonthlyRecord struct {
	ID               string
	EmployeeID       string
	PeriodMonth      int
	PeriodYear       int
	TotalWorkingDays int
	PresentDays      int
	AbsentDays       int
	PaidLeaveDays    int
	UnpaidLeaveDays  int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PayableDays is the count of days the employee is entitled to be paid for.
// Paid leave counts as payable.
func (r MonthlyRecord) PayableDays() int {
	return r.PresentDays + r.PaidLeaveDays
}

// LossOfPayDays is the count of unpaid days in the period.
func (r MonthlyRecord) LossOfPayDays() int {
	return r.AbsentDays + r.UnpaidLeaveDays
}

// Valid reports whether the day counts are internally consistent.
func (r MonthlyRecord) Valid() bool {
	if r.TotalWorkingDays <= 0 {
		return false
	}
	if r.PresentDays < 0 || r.AbsentDays < 0 || r.PaidLeaveDays < 0 || r.UnpaidLeaveDays < 0 {
		return false
	}
	return r.PresentDays+r.AbsentDays+r.PaidLeaveDays+r.UnpaidLeaveDays <= r.TotalWorkingDays
}
