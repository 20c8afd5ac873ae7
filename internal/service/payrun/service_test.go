package payrun

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/advance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/loan"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payrun"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/rates"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakePayRunRepo struct {
	runs         map[string]payrun.PayRun
	periodExists bool
	lockErr      error
}

func newFakePayRunRepo() *fakePayRunRepo {
	return &fakePayRunRepo{runs: map[string]payrun.PayRun{}}
}

func (f *fakePayRunRepo) AcquirePeriodLock(ctx context.Context, month, year int) error {
	return f.lockErr
}

func (f *fakePayRunRepo) ExistsForPeriod(ctx context.Context, month, year int) (bool, error) {
	return f.periodExists, nil
}

func (f *fakePayRunRepo) Create(ctx context.Context, run payrun.PayRun) (payrun.PayRun, error) {
	f.runs[run.ID] = run
	return run, nil
}

func (f *fakePayRunRepo) GetByID(ctx context.Context, id string) (payrun.PayRun, error) {
	run, ok := f.runs[id]
	if !ok {
		return payrun.PayRun{}, payrun.ErrPayRunNotFound
	}
	return run, nil
}

func (f *fakePayRunRepo) GetByPeriod(ctx context.Context, month, year int) (payrun.PayRun, error) {
	for _, run := range f.runs {
		if run.PeriodMonth == month && run.PeriodYear == year && run.Status != payrun.PayRunStatusCancelled {
			return run, nil
		}
	}
	return payrun.PayRun{}, payrun.ErrPayRunNotFound
}

func (f *fakePayRunRepo) List(ctx context.Context) ([]payrun.PayRun, error) {
	var out []payrun.PayRun
	for _, run := range f.runs {
		out = append(out, run)
	}
	return out, nil
}

func (f *fakePayRunRepo) UpdateStatus(ctx context.Context, id string, from, to payrun.PayRunStatus, at time.Time) error {
	run, ok := f.runs[id]
	if !ok {
		return payrun.ErrPayRunNotFound
	}
	if run.Status != from {
		return payrun.ErrInvalidStatusTransition
	}
	run.Status = to
	f.runs[id] = run
	return nil
}

func (f *fakePayRunRepo) Cancel(ctx context.Context, id string, at time.Time) error {
	run, ok := f.runs[id]
	if !ok {
		return payrun.ErrPayRunNotFound
	}
	if !run.Status.CanTransition(payrun.PayRunStatusCancelled) {
		return payrun.ErrInvalidStatusTransition
	}
	run.Status = payrun.PayRunStatusCancelled
	run.CancelledAt = &at
	f.runs[id] = run
	return nil
}

type fakeEmployeeRepo struct {
	roster []employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	for _, e := range f.roster {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetActiveRoster(ctx context.Context, asOf time.Time) ([]employee.Employee, error) {
	return f.roster, nil
}

func (f *fakeEmployeeRepo) SetSalaryStructure(ctx context.Context, s employee.SalaryStructure) (employee.SalaryStructure, error) {
	return s, nil
}

type fakeAttendanceRepo struct {
	records map[string]attendance.MonthlyRecord
}

func (f *fakeAttendanceRepo) Lookup(ctx context.Context, employeeID string, month, year int) (attendance.MonthlyRecord, error) {
	rec, ok := f.records[employeeID]
	if !ok {
		return attendance.MonthlyRecord{}, attendance.ErrAttendanceNotFound
	}
	return rec, nil
}

type fakeLoanRepo struct {
	pending []loan.LoanInstallment
	paid    []string
}

func (f *fakeLoanRepo) Create(ctx context.Context, r loan.LoanRecord) (loan.LoanRecord, error) {
	return r, nil
}

func (f *fakeLoanRepo) GetByID(ctx context.Context, id string) (loan.LoanRecord, error) {
	return loan.LoanRecord{}, loan.ErrLoanNotFound
}

func (f *fakeLoanRepo) ListByEmployee(ctx context.Context, employeeID string) ([]loan.LoanRecord, error) {
	return nil, nil
}

func (f *fakeLoanRepo) PendingInstallmentsForPeriod(ctx context.Context, employeeID string, month, year int) ([]loan.LoanInstallment, error) {
	return f.pending, nil
}

func (f *fakeLoanRepo) MarkInstallmentPaid(ctx context.Context, installmentID string, payRunID string, amount decimal.Decimal) error {
	f.paid = append(f.paid, installmentID)
	return nil
}

func (f *fakeLoanRepo) CancelLoan(ctx context.Context, id string) error {
	return nil
}

type fakeAdvanceRepo struct {
	recoverable []advance.AdvanceRecord
	deducted    []string
}

func (f *fakeAdvanceRepo) Create(ctx context.Context, r advance.AdvanceRecord) (advance.AdvanceRecord, error) {
	return r, nil
}

func (f *fakeAdvanceRepo) GetByID(ctx context.Context, id string) (advance.AdvanceRecord, error) {
	return advance.AdvanceRecord{}, advance.ErrAdvanceNotFound
}

func (f *fakeAdvanceRepo) ListByEmployee(ctx context.Context, employeeID string) ([]advance.AdvanceRecord, error) {
	return nil, nil
}

func (f *fakeAdvanceRepo) RecoverableForPeriod(ctx context.Context, employeeID string, month, year int) ([]advance.AdvanceRecord, error) {
	return f.recoverable, nil
}

func (f *fakeAdvanceRepo) ApplyDeduction(ctx context.Context, advanceID string, deducted decimal.Decimal) error {
	f.deducted = append(f.deducted, advanceID)
	return nil
}

type fakeRateService struct {
	set rates.RateSet
	err error
}

func (f *fakeRateService) Create(ctx context.Context, req rates.CreateRateSetRequest) (rates.RateSetResponse, error) {
	return rates.RateSetResponse{}, nil
}

func (f *fakeRateService) Resolve(ctx context.Context, date time.Time) (rates.RateSet, error) {
	return f.set, f.err
}

func (f *fakeRateService) Get(ctx context.Context, dateStr string) (rates.RateSetResponse, error) {
	return rates.RateSetResponse{}, nil
}

func (f *fakeRateService) List(ctx context.Context) ([]rates.RateSetResponse, error) {
	return nil, nil
}

// ---- helpers ----

type fixture struct {
	svc            payrun.PayRunService
	payRunRepo     *fakePayRunRepo
	employeeRepo   *fakeEmployeeRepo
	attendanceRepo *fakeAttendanceRepo
	loanRepo       *fakeLoanRepo
	advanceRepo    *fakeAdvanceRepo
	rateService    *fakeRateService
}

func newFixture() *fixture {
	f := &fixture{
		payRunRepo:     newFakePayRunRepo(),
		employeeRepo:   &fakeEmployeeRepo{},
		attendanceRepo: &fakeAttendanceRepo{records: map[string]attendance.MonthlyRecord{}},
		loanRepo:       &fakeLoanRepo{},
		advanceRepo:    &fakeAdvanceRepo{},
		rateService:    &fakeRateService{set: testRateSet()},
	}
	f.svc = NewPayRunService(
		&fakeTxManager{},
		f.payRunRepo,
		f.employeeRepo,
		f.attendanceRepo,
		f.loanRepo,
		f.advanceRepo,
		f.rateService,
		slog.New(slog.DiscardHandler),
	)
	return f
}

func testEmployee(id string) employee.Employee {
	return employee.Employee{
		ID:       id,
		Code:     "EMP-" + id,
		FullName: "Employee " + id,
		Active:   true,
		Structure: &employee.SalaryStructure{
			ID:                     "ss-" + id,
			EmployeeID:             id,
			CTC:                    dec("1200000"),
			BasicPercent:           dec("50"),
			HRAPercent:             dec("40"),
			Conveyance:             dec("1600"),
			Telephone:              dec("1000"),
			Medical:                dec("1250"),
			TDS:                    dec("2500"),
			IncludesProvidentFund:  true,
			IncludesStateInsurance: true,
			PaymentMode:            employee.PaymentModeBankTransfer,
		},
	}
}

// ---- tests ----

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	req := payrun.GeneratePayRunRequest{PeriodMonth: 6, PeriodYear: 2025}

	t.Run("full attendance employee", func(t *testing.T) {
		f := newFixture()
		f.employeeRepo.roster = []employee.Employee{testEmployee("e1")}
		f.attendanceRepo.records["e1"] = attendance.MonthlyRecord{
			EmployeeID: "e1", PeriodMonth: 6, PeriodYear: 2025,
			TotalWorkingDays: 26, PresentDays: 26,
		}

		resp, err := f.svc.Generate(ctx, req)
		require.NoError(t, err)

		require.Len(t, resp.Records, 1)
		rec := resp.Records[0]
		assert.True(t, rec.Gross.Equal(dec("100000")), "gross = %s", rec.Gross)
		assert.True(t, rec.LossOfPayAmount.IsZero())
		assert.True(t, rec.ProratedGross.Equal(dec("100000")))
		assert.False(t, rec.AttendanceDefaulted)
		// gross is above both statutory ceilings
		assert.True(t, rec.PFEmployee.Equal(dec("1800")))
		assert.True(t, rec.ESIEmployee.IsZero())
		assert.True(t, rec.ProfessionalTax.Equal(dec("200")))
		// 100000 - 1800 - 0 - 200 - 2500
		assert.True(t, rec.NetPay.Equal(dec("95500")), "net = %s", rec.NetPay)
		assert.Equal(t, "draft", resp.Status)
	})

	t.Run("loss of pay prorates gross", func(t *testing.T) {
		f := newFixture()
		f.employeeRepo.roster = []employee.Employee{testEmployee("e1")}
		f.attendanceRepo.records["e1"] = attendance.MonthlyRecord{
			EmployeeID: "e1", PeriodMonth: 6, PeriodYear: 2025,
			TotalWorkingDays: 26, PresentDays: 22, PaidLeaveDays: 2, AbsentDays: 1, UnpaidLeaveDays: 1,
		}

		resp, err := f.svc.Generate(ctx, req)
		require.NoError(t, err)

		rec := resp.Records[0]
		assert.Equal(t, 24, rec.PayableDays)
		assert.Equal(t, 2, rec.LossOfPayDays)
		// 100000 * 2 / 26 = 7692.31
		assert.True(t, rec.LossOfPayAmount.Equal(dec("7692.31")), "lop = %s", rec.LossOfPayAmount)
		assert.True(t, rec.ProratedGross.Equal(dec("92307.69")))
		// statutory deductions still computed on the unprorated gross
		assert.True(t, rec.PFEmployee.Equal(dec("1800")))
		assert.True(t, rec.ProfessionalTax.Equal(dec("200")))
	})

	t.Run("missing attendance defaults to full attendance", func(t *testing.T) {
		f := newFixture()
		f.employeeRepo.roster = []employee.Employee{testEmployee("e1")}

		resp, err := f.svc.Generate(ctx, req)
		require.NoError(t, err)

		rec := resp.Records[0]
		assert.True(t, rec.AttendanceDefaulted)
		// June 2025 has 21 weekdays
		assert.Equal(t, 21, rec.TotalWorkingDays)
		assert.Equal(t, 21, rec.PayableDays)
		assert.Equal(t, 0, rec.LossOfPayDays)
		assert.True(t, rec.LossOfPayAmount.IsZero())
	})

	t.Run("missing salary structure excludes without aborting the batch", func(t *testing.T) {
		f := newFixture()
		broken := testEmployee("e2")
		broken.Structure = nil
		f.employeeRepo.roster = []employee.Employee{testEmployee("e1"), broken}

		resp, err := f.svc.Generate(ctx, req)
		require.NoError(t, err)

		assert.Len(t, resp.Records, 1)
		require.Len(t, resp.Exclusions, 1)
		assert.Equal(t, "e2", resp.Exclusions[0].EmployeeID)
		assert.Equal(t, employee.ErrSalaryStructureNotFound.Error(), resp.Exclusions[0].Reason)
	})

	t.Run("inconsistent structure excludes the employee", func(t *testing.T) {
		f := newFixture()
		broken := testEmployee("e2")
		broken.Structure.CTC = dec("60000")
		f.employeeRepo.roster = []employee.Employee{broken}

		resp, err := f.svc.Generate(ctx, req)
		require.NoError(t, err)

		assert.Empty(t, resp.Records)
		require.Len(t, resp.Exclusions, 1)
		assert.Equal(t, payrun.ErrInconsistentSalaryStructure.Error(), resp.Exclusions[0].Reason)
	})

	t.Run("no resolvable rate set excludes every employee", func(t *testing.T) {
		f := newFixture()
		f.rateService.err = rates.ErrNoRateSetForDate
		f.employeeRepo.roster = []employee.Employee{testEmployee("e1"), testEmployee("e2")}

		resp, err := f.svc.Generate(ctx, req)
		require.NoError(t, err)

		assert.Empty(t, resp.Records)
		assert.Len(t, resp.Exclusions, 2)
	})

	t.Run("duplicate period rejected", func(t *testing.T) {
		f := newFixture()
		f.employeeRepo.roster = []employee.Employee{testEmployee("e1")}
		f.payRunRepo.periodExists = true

		_, err := f.svc.Generate(ctx, req)
		assert.ErrorIs(t, err, payrun.ErrDuplicatePayRun)
	})

	t.Run("empty roster rejected", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Generate(ctx, req)
		assert.ErrorIs(t, err, payrun.ErrEmptyRoster)
	})

	t.Run("recoveries reduce net and are linked to source records", func(t *testing.T) {
		f := newFixture()
		f.employeeRepo.roster = []employee.Employee{testEmployee("e1")}
		f.advanceRepo.recoverable = []advance.AdvanceRecord{
			{ID: "adv-1", EmployeeID: "e1", RemainingAmount: dec("5000")},
		}
		f.loanRepo.pending = []loan.LoanInstallment{
			{ID: "inst-1", Amount: dec("4583.33"), DueMonth: 6, DueYear: 2025},
		}

		resp, err := f.svc.Generate(ctx, req)
		require.NoError(t, err)

		rec := resp.Records[0]
		assert.True(t, rec.AdvanceDeduction.Equal(dec("5000")))
		assert.True(t, rec.LoanDeduction.Equal(dec("4583.33")))
		// 100000 - 1800 - 200 - 2500 - 5000 - 4583.33
		assert.True(t, rec.NetPay.Equal(dec("85916.67")), "net = %s", rec.NetPay)

		stored := f.payRunRepo.runs[resp.ID]
		require.Len(t, stored.Records, 1)
		require.Len(t, stored.Records[0].TouchedAdvances, 1)
		assert.Equal(t, "adv-1", stored.Records[0].TouchedAdvances[0].AdvanceID)
		require.Len(t, stored.Records[0].TouchedInstallments, 1)
		assert.Equal(t, "inst-1", stored.Records[0].TouchedInstallments[0].InstallmentID)
	})

	t.Run("aggregates reconcile", func(t *testing.T) {
		f := newFixture()
		f.employeeRepo.roster = []employee.Employee{testEmployee("e1"), testEmployee("e2")}

		resp, err := f.svc.Generate(ctx, req)
		require.NoError(t, err)

		assert.Equal(t, 2, resp.EmployeeCount)
		assert.True(t, resp.TotalGross.Sub(resp.TotalDeductions).Equal(resp.TotalNet),
			"gross %s - deductions %s != net %s", resp.TotalGross, resp.TotalDeductions, resp.TotalNet)
	})

	t.Run("invalid period rejected before any work", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Generate(ctx, payrun.GeneratePayRunRequest{PeriodMonth: 13, PeriodYear: 2025})
		require.Error(t, err)
	})
}

func TestStatusTransitions(t *testing.T) {
	ctx := context.Background()
	req := payrun.GeneratePayRunRequest{PeriodMonth: 6, PeriodYear: 2025}

	generate := func(t *testing.T, f *fixture) string {
		t.Helper()
		f.employeeRepo.roster = []employee.Employee{testEmployee("e1")}
		f.advanceRepo.recoverable = []advance.AdvanceRecord{
			{ID: "adv-1", EmployeeID: "e1", RemainingAmount: dec("5000")},
		}
		f.loanRepo.pending = []loan.LoanInstallment{
			{ID: "inst-1", Amount: dec("4583.33"), DueMonth: 6, DueYear: 2025},
		}
		resp, err := f.svc.Generate(ctx, req)
		require.NoError(t, err)
		return resp.ID
	}

	t.Run("approve then process applies recoveries", func(t *testing.T) {
		f := newFixture()
		id := generate(t, f)

		require.NoError(t, f.svc.Approve(ctx, id))
		require.NoError(t, f.svc.Process(ctx, id))

		assert.Equal(t, []string{"adv-1"}, f.advanceRepo.deducted)
		assert.Equal(t, []string{"inst-1"}, f.loanRepo.paid)
	})

	t.Run("process without approval rejected", func(t *testing.T) {
		f := newFixture()
		id := generate(t, f)

		err := f.svc.Process(ctx, id)
		assert.ErrorIs(t, err, payrun.ErrInvalidStatusTransition)
		assert.Empty(t, f.advanceRepo.deducted)
	})

	t.Run("processing twice does not double deduct", func(t *testing.T) {
		f := newFixture()
		id := generate(t, f)
		require.NoError(t, f.svc.Approve(ctx, id))
		require.NoError(t, f.svc.Process(ctx, id))

		err := f.svc.Process(ctx, id)
		assert.ErrorIs(t, err, payrun.ErrInvalidStatusTransition)
		assert.Equal(t, []string{"adv-1"}, f.advanceRepo.deducted)
		assert.Equal(t, []string{"inst-1"}, f.loanRepo.paid)
	})

	t.Run("cancel from draft and approved", func(t *testing.T) {
		f := newFixture()
		id := generate(t, f)
		require.NoError(t, f.svc.Cancel(ctx, id))

		f = newFixture()
		id = generate(t, f)
		require.NoError(t, f.svc.Approve(ctx, id))
		require.NoError(t, f.svc.Cancel(ctx, id))
	})

	t.Run("cancel after processing rejected", func(t *testing.T) {
		f := newFixture()
		id := generate(t, f)
		require.NoError(t, f.svc.Approve(ctx, id))
		require.NoError(t, f.svc.Process(ctx, id))

		err := f.svc.Cancel(ctx, id)
		assert.ErrorIs(t, err, payrun.ErrInvalidStatusTransition)
	})

	t.Run("approve unknown run", func(t *testing.T) {
		f := newFixture()

		err := f.svc.Approve(ctx, "missing")
		assert.ErrorIs(t, err, payrun.ErrPayRunNotFound)
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	f := newFixture()
	f.employeeRepo.roster = []employee.Employee{testEmployee("e1"), testEmployee("e2")}
	resp, err := f.svc.Generate(ctx, payrun.GeneratePayRunRequest{PeriodMonth: 6, PeriodYear: 2025})
	require.NoError(t, err)

	reg, err := f.svc.Register(ctx, resp.ID)
	require.NoError(t, err)

	require.Len(t, reg.Rows, 2)
	assert.Equal(t, "TOTAL", reg.Totals.EmployeeName)
	assert.True(t, reg.Totals.Gross.Equal(dec("200000")), "total gross = %s", reg.Totals.Gross)
	assert.True(t, reg.Totals.NetPay.Equal(reg.Rows[0].NetPay.Add(reg.Rows[1].NetPay)))
	assert.True(t, reg.Totals.PFEmployee.Equal(dec("3600")))
}
