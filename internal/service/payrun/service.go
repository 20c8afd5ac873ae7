package payrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/advance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/loan"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payrun"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/rates"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PayRunServiceImpl struct {
	txm            database.TxManager
	payRunRepo     payrun.PayRunRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	loanRepo       loan.LoanRepository
	advanceRepo    advance.AdvanceRepository
	rateService    rates.RateService
	logger         *slog.Logger
}

func NewPayRunService(
	txm database.TxManager,
	payRunRepo payrun.PayRunRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	loanRepo loan.LoanRepository,
	advanceRepo advance.AdvanceRepository,
	rateService rates.RateService,
	logger *slog.Logger,
) payrun.PayRunService {
	return &PayRunServiceImpl{
		txm:            txm,
		payRunRepo:     payRunRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		loanRepo:       loanRepo,
		advanceRepo:    advanceRepo,
		rateService:    rateService,
		logger:         logger,
	}
}

// ========== GENERATION ==========

// Generate builds the pay run for one period inside a single transaction:
// either the full run with every employee record lands, or nothing does.
// Per-employee configuration errors become exclusion rows instead of aborting
// the batch.
func (s *PayRunServiceImpl) Generate(ctx context.Context, req payrun.GeneratePayRunRequest) (payrun.PayRunResponse, error) {
	if err := req.Validate(); err != nil {
		return payrun.PayRunResponse{}, err
	}

	periodStart := time.Date(req.PeriodYear, time.Month(req.PeriodMonth), 1, 0, 0, 0, 0, time.UTC)

	var created payrun.PayRun
	err := s.txm.RunInTx(ctx, func(ctx context.Context) error {
		// Serialize concurrent generation for the same period; the partial
		// unique index on (month, year) backstops this.
		if err := s.payRunRepo.AcquirePeriodLock(ctx, req.PeriodMonth, req.PeriodYear); err != nil {
			return err
		}

		exists, err := s.payRunRepo.ExistsForPeriod(ctx, req.PeriodMonth, req.PeriodYear)
		if err != nil {
			return err
		}
		if exists {
			return payrun.ErrDuplicatePayRun
		}

		roster, err := s.employeeRepo.GetActiveRoster(ctx, periodStart)
		if err != nil {
			return fmt.Errorf("failed to load active roster: %w", err)
		}
		if len(roster) == 0 {
			return payrun.ErrEmptyRoster
		}

		rateSet, rateErr := s.rateService.Resolve(ctx, periodStart)

		run := payrun.PayRun{
			ID:              uuid.NewString(),
			PeriodMonth:     req.PeriodMonth,
			PeriodYear:      req.PeriodYear,
			Status:          payrun.PayRunStatusDraft,
			TotalGross:      decimal.Zero,
			TotalDeductions: decimal.Zero,
			TotalNet:        decimal.Zero,
			GeneratedAt:     time.Now().UTC(),
		}

		for _, emp := range roster {
			record, excludeReason, err := s.buildEmployeeRecord(ctx, emp, req.PeriodMonth, req.PeriodYear, rateSet, rateErr)
			if err != nil {
				return err
			}
			if excludeReason != "" {
				s.logger.Warn("employee excluded from pay run",
					slog.String("employee_id", emp.ID),
					slog.Int("period_month", req.PeriodMonth),
					slog.Int("period_year", req.PeriodYear),
					slog.String("reason", excludeReason),
				)
				run.Exclusions = append(run.Exclusions, payrun.Exclusion{
					ID:           uuid.NewString(),
					PayRunID:     run.ID,
					EmployeeID:   emp.ID,
					EmployeeName: emp.FullName,
					Reason:       excludeReason,
				})
				continue
			}

			record.ID = uuid.NewString()
			record.PayRunID = run.ID
			run.Records = append(run.Records, record)
			run.TotalGross = run.TotalGross.Add(record.Earnings.Gross)
			run.TotalDeductions = run.TotalDeductions.Add(record.TotalDeductions()).Add(record.LossOfPayAmount)
			run.TotalNet = run.TotalNet.Add(record.NetPay)
		}
		run.EmployeeCount = len(run.Records)

		created, err = s.payRunRepo.Create(ctx, run)
		return err
	})
	if err != nil {
		return payrun.PayRunResponse{}, err
	}

	s.logger.Info("pay run generated",
		slog.String("pay_run_id", created.ID),
		slog.Int("period_month", created.PeriodMonth),
		slog.Int("period_year", created.PeriodYear),
		slog.Int("employees", created.EmployeeCount),
		slog.Int("exclusions", len(created.Exclusions)),
	)

	return mapToResponse(created), nil
}

// buildEmployeeRecord computes one employee's snapshot. A non-empty reason
// means the employee is excluded; a returned error aborts the whole batch and
// is reserved for infrastructure failures.
func (s *PayRunServiceImpl) buildEmployeeRecord(
	ctx context.Context,
	emp employee.Employee,
	month, year int,
	rateSet rates.RateSet,
	rateErr error,
) (payrun.EmployeeRecord, string, error) {
	if rateErr != nil {
		return payrun.EmployeeRecord{}, rateErr.Error(), nil
	}
	if emp.Structure == nil {
		return payrun.EmployeeRecord{}, employee.ErrSalaryStructureNotFound.Error(), nil
	}
	structure := *emp.Structure

	earnings, err := ResolveEarnings(structure)
	if err != nil {
		return payrun.EmployeeRecord{}, err.Error(), nil
	}

	// Statutory deductions apply to the unprorated entitlement, not to
	// LOP-adjusted pay.
	deductions := ComputeDeductions(earnings, structure, rateSet)

	record := payrun.EmployeeRecord{
		EmployeeID:   emp.ID,
		EmployeeCode: emp.Code,
		EmployeeName: emp.FullName,
		Department:   emp.Department,
		Designation:  emp.Designation,
		PaymentMode:  string(structure.PaymentMode),
		Earnings:     earnings,
		Deductions:   deductions,
		TDS:          structure.TDS,
	}

	att, err := s.attendanceRepo.Lookup(ctx, emp.ID, month, year)
	switch {
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		// Attendance entry is an independent workflow; a missing record means
		// full attendance, not an error.
		days := workingDaysInMonth(month, year)
		record.TotalWorkingDays = days
		record.PayableDays = days
		record.LossOfPayDays = 0
		record.AttendanceDefaulted = true
	case err != nil:
		return payrun.EmployeeRecord{}, "", fmt.Errorf("failed to look up attendance for employee %s: %w", emp.ID, err)
	case !att.Valid():
		return payrun.EmployeeRecord{}, "inconsistent attendance record for the period", nil
	default:
		record.TotalWorkingDays = att.TotalWorkingDays
		record.PayableDays = att.PayableDays()
		record.LossOfPayDays = att.LossOfPayDays()
	}

	totalDays := decimal.NewFromInt(int64(record.TotalWorkingDays))
	record.LossOfPayAmount = earnings.Gross.
		Mul(decimal.NewFromInt(int64(record.LossOfPayDays))).
		Div(totalDays).
		Round(2)
	record.ProratedGross = earnings.Gross.Sub(record.LossOfPayAmount)

	rec, err := s.matchRecoveries(ctx, emp.ID, month, year)
	if err != nil {
		return payrun.EmployeeRecord{}, "", err
	}
	record.AdvanceDeduction = rec.advanceDeduction
	record.LoanDeduction = rec.loanDeduction
	record.TouchedAdvances = rec.touchedAdvances
	record.TouchedInstallments = rec.touchedInstallments

	record.NetPay = record.ProratedGross.
		Sub(record.Deductions.PFEmployee).
		Sub(record.Deductions.ESIEmployee).
		Sub(record.Deductions.ProfessionalTax).
		Sub(record.TDS).
		Sub(record.AdvanceDeduction).
		Sub(record.LoanDeduction)

	return record, "", nil
}

// workingDaysInMonth counts Monday..Friday days, used only when no attendance
// record exists for the period.
func workingDaysInMonth(month, year int) int {
	days := 0
	day := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	for day.Month() == time.Month(month) {
		if day.Weekday() != time.Saturday && day.Weekday() != time.Sunday {
			days++
		}
		day = day.AddDate(0, 0, 1)
	}
	return days
}

// ========== STATUS TRANSITIONS ==========

func (s *PayRunServiceImpl) Approve(ctx context.Context, id string) error {
	return s.payRunRepo.UpdateStatus(ctx, id, payrun.PayRunStatusDraft, payrun.PayRunStatusApproved, time.Now().UTC())
}

// Process applies the run's matched deductions to the source loan and advance
// records, all inside one transaction. The guarded approved -> processed
// update runs first so a second concurrent or repeated call is rejected
// before any mutation, preventing double deduction.
func (s *PayRunServiceImpl) Process(ctx context.Context, id string) error {
	err := s.txm.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.payRunRepo.UpdateStatus(ctx, id, payrun.PayRunStatusApproved, payrun.PayRunStatusProcessed, time.Now().UTC()); err != nil {
			return err
		}

		run, err := s.payRunRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		for _, record := range run.Records {
			for _, touch := range record.TouchedAdvances {
				if err := s.advanceRepo.ApplyDeduction(ctx, touch.AdvanceID, touch.Amount); err != nil {
					return fmt.Errorf("failed to apply advance deduction %s: %w", touch.AdvanceID, err)
				}
			}
			for _, touch := range record.TouchedInstallments {
				if err := s.loanRepo.MarkInstallmentPaid(ctx, touch.InstallmentID, run.ID, touch.Amount); err != nil {
					return fmt.Errorf("failed to mark installment %s paid: %w", touch.InstallmentID, err)
				}
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("pay run processed", slog.String("pay_run_id", id))
	return nil
}

func (s *PayRunServiceImpl) Cancel(ctx context.Context, id string) error {
	return s.payRunRepo.Cancel(ctx, id, time.Now().UTC())
}

// ========== QUERIES ==========

func (s *PayRunServiceImpl) GetByID(ctx context.Context, id string) (payrun.PayRunResponse, error) {
	run, err := s.payRunRepo.GetByID(ctx, id)
	if err != nil {
		return payrun.PayRunResponse{}, err
	}
	return mapToResponse(run), nil
}

func (s *PayRunServiceImpl) GetByPeriod(ctx context.Context, month, year int) (payrun.PayRunResponse, error) {
	run, err := s.payRunRepo.GetByPeriod(ctx, month, year)
	if err != nil {
		return payrun.PayRunResponse{}, err
	}
	return mapToResponse(run), nil
}

func (s *PayRunServiceImpl) List(ctx context.Context) ([]payrun.PayRunSummaryResponse, error) {
	runs, err := s.payRunRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]payrun.PayRunSummaryResponse, 0, len(runs))
	for _, run := range runs {
		result = append(result, payrun.PayRunSummaryResponse{
			ID:            run.ID,
			PeriodMonth:   run.PeriodMonth,
			PeriodYear:    run.PeriodYear,
			Status:        string(run.Status),
			EmployeeCount: run.EmployeeCount,
			TotalNet:      run.TotalNet,
			GeneratedAt:   run.GeneratedAt.Format(time.RFC3339),
		})
	}
	return result, nil
}

// Register renders the tabular per-employee view of a pay run, with a totals
// footer summing every numeric column.
func (s *PayRunServiceImpl) Register(ctx context.Context, id string) (payrun.RegisterResponse, error) {
	run, err := s.payRunRepo.GetByID(ctx, id)
	if err != nil {
		return payrun.RegisterResponse{}, err
	}

	resp := payrun.RegisterResponse{
		PayRunID:    run.ID,
		PeriodMonth: run.PeriodMonth,
		PeriodYear:  run.PeriodYear,
	}
	totals := payrun.RegisterRow{EmployeeName: "TOTAL"}

	for _, r := range run.Records {
		row := payrun.RegisterRow{
			EmployeeID:       r.EmployeeID,
			EmployeeCode:     r.EmployeeCode,
			EmployeeName:     r.EmployeeName,
			Department:       r.Department,
			Designation:      r.Designation,
			Basic:            r.Earnings.Basic,
			HRA:              r.Earnings.HRA,
			Conveyance:       r.Earnings.Conveyance,
			Telephone:        r.Earnings.Telephone,
			Medical:          r.Earnings.Medical,
			SpecialAllowance: r.Earnings.SpecialAllowance,
			OtherAllowances:  r.Earnings.OtherAllowances,
			Gross:            r.Earnings.Gross,
			TotalWorkingDays: r.TotalWorkingDays,
			PayableDays:      r.PayableDays,
			LossOfPayDays:    r.LossOfPayDays,
			LossOfPayAmount:  r.LossOfPayAmount,
			PFEmployee:       r.Deductions.PFEmployee,
			ESIEmployee:      r.Deductions.ESIEmployee,
			ProfessionalTax:  r.Deductions.ProfessionalTax,
			TDS:              r.TDS,
			AdvanceDeduction: r.AdvanceDeduction,
			LoanDeduction:    r.LoanDeduction,
			NetPay:           r.NetPay,
		}
		resp.Rows = append(resp.Rows, row)

		totals.Basic = totals.Basic.Add(row.Basic)
		totals.HRA = totals.HRA.Add(row.HRA)
		totals.Conveyance = totals.Conveyance.Add(row.Conveyance)
		totals.Telephone = totals.Telephone.Add(row.Telephone)
		totals.Medical = totals.Medical.Add(row.Medical)
		totals.SpecialAllowance = totals.SpecialAllowance.Add(row.SpecialAllowance)
		totals.OtherAllowances = totals.OtherAllowances.Add(row.OtherAllowances)
		totals.Gross = totals.Gross.Add(row.Gross)
		totals.TotalWorkingDays += row.TotalWorkingDays
		totals.PayableDays += row.PayableDays
		totals.LossOfPayDays += row.LossOfPayDays
		totals.LossOfPayAmount = totals.LossOfPayAmount.Add(row.LossOfPayAmount)
		totals.PFEmployee = totals.PFEmployee.Add(row.PFEmployee)
		totals.ESIEmployee = totals.ESIEmployee.Add(row.ESIEmployee)
		totals.ProfessionalTax = totals.ProfessionalTax.Add(row.ProfessionalTax)
		totals.TDS = totals.TDS.Add(row.TDS)
		totals.AdvanceDeduction = totals.AdvanceDeduction.Add(row.AdvanceDeduction)
		totals.LoanDeduction = totals.LoanDeduction.Add(row.LoanDeduction)
		totals.NetPay = totals.NetPay.Add(row.NetPay)
	}
	resp.Totals = totals

	return resp, nil
}

// ========== HELPERS ==========

func mapToResponse(run payrun.PayRun) payrun.PayRunResponse {
	resp := payrun.PayRunResponse{
		ID:              run.ID,
		PeriodMonth:     run.PeriodMonth,
		PeriodYear:      run.PeriodYear,
		Status:          string(run.Status),
		EmployeeCount:   run.EmployeeCount,
		TotalGross:      run.TotalGross,
		TotalDeductions: run.TotalDeductions,
		TotalNet:        run.TotalNet,
		GeneratedAt:     run.GeneratedAt.Format(time.RFC3339),
	}
	resp.ApprovedAt = formatTimePtr(run.ApprovedAt)
	resp.ProcessedAt = formatTimePtr(run.ProcessedAt)
	resp.CancelledAt = formatTimePtr(run.CancelledAt)

	for _, r := range run.Records {
		resp.Records = append(resp.Records, payrun.EmployeeRecordResponse{
			ID:                  r.ID,
			EmployeeID:          r.EmployeeID,
			EmployeeCode:        r.EmployeeCode,
			EmployeeName:        r.EmployeeName,
			Department:          r.Department,
			Designation:         r.Designation,
			PaymentMode:         r.PaymentMode,
			Basic:               r.Earnings.Basic,
			HRA:                 r.Earnings.HRA,
			Conveyance:          r.Earnings.Conveyance,
			Telephone:           r.Earnings.Telephone,
			Medical:             r.Earnings.Medical,
			SpecialAllowance:    r.Earnings.SpecialAllowance,
			OtherAllowances:     r.Earnings.OtherAllowances,
			Gross:               r.Earnings.Gross,
			TotalWorkingDays:    r.TotalWorkingDays,
			PayableDays:         r.PayableDays,
			LossOfPayDays:       r.LossOfPayDays,
			AttendanceDefaulted: r.AttendanceDefaulted,
			LossOfPayAmount:     r.LossOfPayAmount,
			ProratedGross:       r.ProratedGross,
			PFEmployee:          r.Deductions.PFEmployee,
			PFEmployer:          r.Deductions.PFEmployer,
			ESIEmployee:         r.Deductions.ESIEmployee,
			ESIEmployer:         r.Deductions.ESIEmployer,
			ProfessionalTax:     r.Deductions.ProfessionalTax,
			TDS:                 r.TDS,
			AdvanceDeduction:    r.AdvanceDeduction,
			LoanDeduction:       r.LoanDeduction,
			NetPay:              r.NetPay,
		})
	}
	for _, e := range run.Exclusions {
		resp.Exclusions = append(resp.Exclusions, payrun.ExclusionResponse{
			EmployeeID:   e.EmployeeID,
			EmployeeName: e.EmployeeName,
			Reason:       e.Reason,
		})
	}

	return resp
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	str := t.Format(time.RFC3339)
	return &str
}
