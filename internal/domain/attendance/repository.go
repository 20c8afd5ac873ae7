package attendance

import "context"

type AttendanceRepository interface {
	// Lookup returns the record for (employee, month, year), or
	// ErrAttendanceNotFound when the external workflow has not entered one.
	Lookup(ctx context.Context, employeeID string, month, year int) (MonthlyRecord, error)
}
