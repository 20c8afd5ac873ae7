package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payrun"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payRunRepositoryImpl struct {
	db *database.DB
}

func NewPayRunRepository(db *database.DB) payrun.PayRunRepository {
	return &payRunRepositoryImpl{db: db}
}

// AcquirePeriodLock implements payrun.PayRunRepository. The lock key encodes
// the period; pg_advisory_xact_lock releases automatically at transaction end.
func (p *payRunRepositoryImpl) AcquirePeriodLock(ctx context.Context, month, year int) error {
	q := database.QuerierFrom(ctx, p.db)

	key := int64(year)*100 + int64(month)
	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, key); err != nil {
		return fmt.Errorf("failed to acquire period lock for %d/%d: %w", month, year, err)
	}

	return nil
}

// ExistsForPeriod implements payrun.PayRunRepository.
func (p *payRunRepositoryImpl) ExistsForPeriod(ctx context.Context, month, year int) (bool, error) {
	q := database.QuerierFrom(ctx, p.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM pay_runs
			WHERE period_month = $1 AND period_year = $2 AND status <> $3
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, month, year, payrun.PayRunStatusCancelled).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pay run existence for %d/%d: %w", month, year, err)
	}

	return exists, nil
}

// Create implements payrun.PayRunRepository.
func (p *payRunRepositoryImpl) Create(ctx context.Context, run payrun.PayRun) (payrun.PayRun, error) {
	q := database.QuerierFrom(ctx, p.db)

	runQuery := `
		INSERT INTO pay_runs (
			id, period_month, period_year, status, employee_count,
			total_gross, total_deductions, total_net, generated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := q.Exec(ctx, runQuery,
		run.ID, run.PeriodMonth, run.PeriodYear, run.Status, run.EmployeeCount,
		run.TotalGross, run.TotalDeductions, run.TotalNet, run.GeneratedAt,
	)
	if err != nil {
		// partial unique index on (period_month, period_year) where not cancelled
		if strings.Contains(err.Error(), "uq_pay_runs_period") {
			return payrun.PayRun{}, payrun.ErrDuplicatePayRun
		}
		return payrun.PayRun{}, fmt.Errorf("failed to create pay run for %d/%d: %w", run.PeriodMonth, run.PeriodYear, err)
	}

	recordQuery := `
		INSERT INTO pay_run_records (
			id, pay_run_id, employee_id, employee_code, employee_name, department, designation, payment_mode,
			basic, hra, conveyance, telephone, medical, special_allowance, other_allowances, gross,
			total_working_days, payable_days, loss_of_pay_days, attendance_defaulted,
			loss_of_pay_amount, prorated_gross,
			pf_employee, pf_employer, esi_employee, esi_employer, professional_tax, tds,
			advance_deduction, loan_deduction, net_pay
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20,
			$21, $22,
			$23, $24, $25, $26, $27, $28,
			$29, $30, $31
		)
	`
	advanceTouchQuery := `
		INSERT INTO pay_run_advance_touches (pay_run_record_id, advance_id, amount)
		VALUES ($1, $2, $3)
	`
	installmentTouchQuery := `
		INSERT INTO pay_run_installment_touches (pay_run_record_id, installment_id, amount)
		VALUES ($1, $2, $3)
	`

	for _, r := range run.Records {
		_, err := q.Exec(ctx, recordQuery,
			r.ID, run.ID, r.EmployeeID, r.EmployeeCode, r.EmployeeName, r.Department, r.Designation, r.PaymentMode,
			r.Earnings.Basic, r.Earnings.HRA, r.Earnings.Conveyance, r.Earnings.Telephone, r.Earnings.Medical,
			r.Earnings.SpecialAllowance, r.Earnings.OtherAllowances, r.Earnings.Gross,
			r.TotalWorkingDays, r.PayableDays, r.LossOfPayDays, r.AttendanceDefaulted,
			r.LossOfPayAmount, r.ProratedGross,
			r.Deductions.PFEmployee, r.Deductions.PFEmployer, r.Deductions.ESIEmployee, r.Deductions.ESIEmployer,
			r.Deductions.ProfessionalTax, r.TDS,
			r.AdvanceDeduction, r.LoanDeduction, r.NetPay,
		)
		if err != nil {
			return payrun.PayRun{}, fmt.Errorf("failed to create pay run record for employee %s: %w", r.EmployeeID, err)
		}

		for _, touch := range r.TouchedAdvances {
			if _, err := q.Exec(ctx, advanceTouchQuery, r.ID, touch.AdvanceID, touch.Amount); err != nil {
				return payrun.PayRun{}, fmt.Errorf("failed to link advance %s to pay run record: %w", touch.AdvanceID, err)
			}
		}
		for _, touch := range r.TouchedInstallments {
			if _, err := q.Exec(ctx, installmentTouchQuery, r.ID, touch.InstallmentID, touch.Amount); err != nil {
				return payrun.PayRun{}, fmt.Errorf("failed to link installment %s to pay run record: %w", touch.InstallmentID, err)
			}
		}
	}

	exclusionQuery := `
		INSERT INTO pay_run_exclusions (id, pay_run_id, employee_id, employee_name, reason)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, e := range run.Exclusions {
		if _, err := q.Exec(ctx, exclusionQuery, e.ID, run.ID, e.EmployeeID, e.EmployeeName, e.Reason); err != nil {
			return payrun.PayRun{}, fmt.Errorf("failed to record exclusion of employee %s: %w", e.EmployeeID, err)
		}
	}

	return run, nil
}

// GetByID implements payrun.PayRunRepository.
func (p *payRunRepositoryImpl) GetByID(ctx context.Context, id string) (payrun.PayRun, error) {
	q := database.QuerierFrom(ctx, p.db)

	query := `
		SELECT id, period_month, period_year, status, employee_count,
			total_gross, total_deductions, total_net,
			generated_at, approved_at, processed_at, cancelled_at
		FROM pay_runs
		WHERE id = $1
	`

	var run payrun.PayRun
	err := q.QueryRow(ctx, query, id).Scan(
		&run.ID, &run.PeriodMonth, &run.PeriodYear, &run.Status, &run.EmployeeCount,
		&run.TotalGross, &run.TotalDeductions, &run.TotalNet,
		&run.GeneratedAt, &run.ApprovedAt, &run.ProcessedAt, &run.CancelledAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payrun.PayRun{}, payrun.ErrPayRunNotFound
		}
		return payrun.PayRun{}, fmt.Errorf("failed to get pay run %s: %w", id, err)
	}

	if err := p.loadDetails(ctx, &run); err != nil {
		return payrun.PayRun{}, err
	}

	return run, nil
}

// GetByPeriod implements payrun.PayRunRepository.
func (p *payRunRepositoryImpl) GetByPeriod(ctx context.Context, month, year int) (payrun.PayRun, error) {
	q := database.QuerierFrom(ctx, p.db)

	query := `
		SELECT id FROM pay_runs
		WHERE period_month = $1 AND period_year = $2 AND status <> $3
	`

	var id string
	err := q.QueryRow(ctx, query, month, year, payrun.PayRunStatusCancelled).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payrun.PayRun{}, payrun.ErrPayRunNotFound
		}
		return payrun.PayRun{}, fmt.Errorf("failed to get pay run for %d/%d: %w", month, year, err)
	}

	return p.GetByID(ctx, id)
}

// List implements payrun.PayRunRepository. Summaries only; records are loaded
// per run via GetByID.
func (p *payRunRepositoryImpl) List(ctx context.Context) ([]payrun.PayRun, error) {
	q := database.QuerierFrom(ctx, p.db)

	query := `
		SELECT id, period_month, period_year, status, employee_count,
			total_gross, total_deductions, total_net,
			generated_at, approved_at, processed_at, cancelled_at
		FROM pay_runs
		ORDER BY period_year DESC, period_month DESC, generated_at DESC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []payrun.PayRun
	for rows.Next() {
		var run payrun.PayRun
		err := rows.Scan(
			&run.ID, &run.PeriodMonth, &run.PeriodYear, &run.Status, &run.EmployeeCount,
			&run.TotalGross, &run.TotalDeductions, &run.TotalNet,
			&run.GeneratedAt, &run.ApprovedAt, &run.ProcessedAt, &run.CancelledAt,
		)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

// UpdateStatus implements payrun.PayRunRepository. The WHERE clause guards the
// transition; zero rows means the run is missing or in the wrong state, and
// the follow-up existence check picks which.
func (p *payRunRepositoryImpl) UpdateStatus(ctx context.Context, id string, from, to payrun.PayRunStatus, at time.Time) error {
	q := database.QuerierFrom(ctx, p.db)

	query := `
		UPDATE pay_runs
		SET status = $1,
			approved_at = CASE WHEN $1 = 'approved' THEN $2 ELSE approved_at END,
			processed_at = CASE WHEN $1 = 'processed' THEN $2 ELSE processed_at END
		WHERE id = $3 AND status = $4
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, to, at, id, from).Scan(&updatedID)
	if err == nil {
		return nil
	}
	if err != pgx.ErrNoRows {
		return fmt.Errorf("failed to transition pay run %s to %s: %w", id, to, err)
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM pay_runs WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check pay run %s: %w", id, err)
	}
	if !exists {
		return payrun.ErrPayRunNotFound
	}
	return payrun.ErrInvalidStatusTransition
}

// Cancel implements payrun.PayRunRepository.
func (p *payRunRepositoryImpl) Cancel(ctx context.Context, id string, at time.Time) error {
	q := database.QuerierFrom(ctx, p.db)

	query := `
		UPDATE pay_runs
		SET status = $1, cancelled_at = $2
		WHERE id = $3 AND status IN ($4, $5)
		RETURNING id
	`

	var cancelledID string
	err := q.QueryRow(ctx, query, payrun.PayRunStatusCancelled, at, id,
		payrun.PayRunStatusDraft, payrun.PayRunStatusApproved).Scan(&cancelledID)
	if err == nil {
		return nil
	}
	if err != pgx.ErrNoRows {
		return fmt.Errorf("failed to cancel pay run %s: %w", id, err)
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM pay_runs WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check pay run %s: %w", id, err)
	}
	if !exists {
		return payrun.ErrPayRunNotFound
	}
	return payrun.ErrInvalidStatusTransition
}

func (p *payRunRepositoryImpl) loadDetails(ctx context.Context, run *payrun.PayRun) error {
	q := database.QuerierFrom(ctx, p.db)

	recordQuery := `
		SELECT id, employee_id, employee_code, employee_name, department, designation, payment_mode,
			basic, hra, conveyance, telephone, medical, special_allowance, other_allowances, gross,
			total_working_days, payable_days, loss_of_pay_days, attendance_defaulted,
			loss_of_pay_amount, prorated_gross,
			pf_employee, pf_employer, esi_employee, esi_employer, professional_tax, tds,
			advance_deduction, loan_deduction, net_pay
		FROM pay_run_records
		WHERE pay_run_id = $1
		ORDER BY employee_code ASC
	`

	rows, err := q.Query(ctx, recordQuery, run.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var r payrun.EmployeeRecord
		err := rows.Scan(
			&r.ID, &r.EmployeeID, &r.EmployeeCode, &r.EmployeeName, &r.Department, &r.Designation, &r.PaymentMode,
			&r.Earnings.Basic, &r.Earnings.HRA, &r.Earnings.Conveyance, &r.Earnings.Telephone, &r.Earnings.Medical,
			&r.Earnings.SpecialAllowance, &r.Earnings.OtherAllowances, &r.Earnings.Gross,
			&r.TotalWorkingDays, &r.PayableDays, &r.LossOfPayDays, &r.AttendanceDefaulted,
			&r.LossOfPayAmount, &r.ProratedGross,
			&r.Deductions.PFEmployee, &r.Deductions.PFEmployer, &r.Deductions.ESIEmployee, &r.Deductions.ESIEmployer,
			&r.Deductions.ProfessionalTax, &r.TDS,
			&r.AdvanceDeduction, &r.LoanDeduction, &r.NetPay,
		)
		if err != nil {
			return err
		}
		r.PayRunID = run.ID
		run.Records = append(run.Records, r)
	}
	if err = rows.Err(); err != nil {
		return err
	}
	rows.Close()

	for i := range run.Records {
		if err := p.loadTouches(ctx, &run.Records[i]); err != nil {
			return err
		}
	}

	exclusionQuery := `
		SELECT id, employee_id, employee_name, reason
		FROM pay_run_exclusions
		WHERE pay_run_id = $1
		ORDER BY employee_name ASC
	`

	exRows, err := q.Query(ctx, exclusionQuery, run.ID)
	if err != nil {
		return err
	}
	defer exRows.Close()

	for exRows.Next() {
		var e payrun.Exclusion
		if err := exRows.Scan(&e.ID, &e.EmployeeID, &e.EmployeeName, &e.Reason); err != nil {
			return err
		}
		e.PayRunID = run.ID
		run.Exclusions = append(run.Exclusions, e)
	}
	return exRows.Err()
}

func (p *payRunRepositoryImpl) loadTouches(ctx context.Context, record *payrun.EmployeeRecord) error {
	q := database.QuerierFrom(ctx, p.db)

	advRows, err := q.Query(ctx,
		`SELECT advance_id, amount FROM pay_run_advance_touches WHERE pay_run_record_id = $1`, record.ID)
	if err != nil {
		return err
	}
	defer advRows.Close()

	for advRows.Next() {
		var t payrun.AdvanceTouch
		if err := advRows.Scan(&t.AdvanceID, &t.Amount); err != nil {
			return err
		}
		record.TouchedAdvances = append(record.TouchedAdvances, t)
	}
	if err = advRows.Err(); err != nil {
		return err
	}
	advRows.Close()

	instRows, err := q.Query(ctx,
		`SELECT installment_id, amount FROM pay_run_installment_touches WHERE pay_run_record_id = $1`, record.ID)
	if err != nil {
		return err
	}
	defer instRows.Close()

	for instRows.Next() {
		var t payrun.InstallmentTouch
		if err := instRows.Scan(&t.InstallmentID, &t.Amount); err != nil {
			return err
		}
		record.TouchedInstallments = append(record.TouchedInstallments, t)
	}
	return instRows.Err()
}
