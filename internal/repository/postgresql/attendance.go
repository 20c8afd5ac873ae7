package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// Lookup implements attendance.AttendanceRepository.
func (a *attendanceRepositoryImpl) Lookup(ctx context.Context, employeeID string, month, year int) (attendance.MonthlyRecord, error) {
	q := database.QuerierFrom(ctx, a.db)

	query := `
		SELECT id, employee_id, period_month, period_year, total_working_days,
			present_days, absent_days, paid_leave_days, unpaid_leave_days, created_at, updated_at
		FROM attendance_records
		WHERE employee_id = $1 AND period_month = $2 AND period_year = $3
	`

	var rec attendance.MonthlyRecord
	err := q.QueryRow(ctx, query, employeeID, month, year).Scan(
		&rec.ID, &rec.EmployeeID, &rec.PeriodMonth, &rec.PeriodYear, &rec.TotalWorkingDays,
		&rec.PresentDays, &rec.AbsentDays, &rec.PaidLeaveDays, &rec.UnpaidLeaveDays,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.MonthlyRecord{}, attendance.ErrAttendanceNotFound
		}
		return attendance.MonthlyRecord{}, fmt.Errorf("failed to look up attendance for employee %s in %d/%d: %w", employeeID, month, year, err)
	}

	return rec, nil
}
