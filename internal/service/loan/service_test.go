package loan

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/loan"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeLoanRepo struct {
	created *loan.LoanRecord
}

func (f *fakeLoanRepo) Create(ctx context.Context, record loan.LoanRecord) (loan.LoanRecord, error) {
	f.created = &record
	return record, nil
}

func (f *fakeLoanRepo) GetByID(ctx context.Context, id string) (loan.LoanRecord, error) {
	if f.created != nil && f.created.ID == id {
		return *f.created, nil
	}
	return loan.LoanRecord{}, loan.ErrLoanNotFound
}

func (f *fakeLoanRepo) ListByEmployee(ctx context.Context, employeeID string) ([]loan.LoanRecord, error) {
	return nil, nil
}

func (f *fakeLoanRepo) PendingInstallmentsForPeriod(ctx context.Context, employeeID string, month, year int) ([]loan.LoanInstallment, error) {
	return nil, nil
}

func (f *fakeLoanRepo) MarkInstallmentPaid(ctx context.Context, installmentID string, payRunID string, amount decimal.Decimal) error {
	return nil
}

func (f *fakeLoanRepo) CancelLoan(ctx context.Context, id string) error { return nil }

type fakeEmployeeRepo struct {
	known map[string]bool
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if !f.known[id] {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return employee.Employee{ID: id}, nil
}

func (f *fakeEmployeeRepo) GetActiveRoster(ctx context.Context, asOf time.Time) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) SetSalaryStructure(ctx context.Context, s employee.SalaryStructure) (employee.SalaryStructure, error) {
	return s, nil
}

func TestLoanServiceCreate(t *testing.T) {
	ctx := context.Background()

	newService := func(repo *fakeLoanRepo) loan.LoanService {
		return NewLoanService(&fakeTxManager{}, repo, &fakeEmployeeRepo{known: map[string]bool{"e1": true}})
	}

	t.Run("creates loan with full schedule", func(t *testing.T) {
		repo := &fakeLoanRepo{}
		svc := newService(repo)

		resp, err := svc.Create(ctx, loan.CreateLoanRequest{
			EmployeeID:        "e1",
			Principal:         decimal.RequireFromString("50000"),
			AnnualRatePercent: decimal.RequireFromString("10"),
			InstallmentCount:  12,
			StartMonth:        7,
			StartYear:         2025,
		})
		require.NoError(t, err)

		assert.True(t, resp.TotalPayable.Equal(decimal.RequireFromString("55000")))
		assert.True(t, resp.RemainingBalance.Equal(resp.TotalPayable))
		assert.Equal(t, "active", resp.Status)
		require.NotNil(t, repo.created)
		require.Len(t, repo.created.Installments, 12)
		for _, inst := range repo.created.Installments {
			assert.Equal(t, repo.created.ID, inst.LoanID)
			assert.NotEmpty(t, inst.ID)
			assert.Equal(t, loan.InstallmentStatusPending, inst.Status)
		}
	})

	t.Run("unknown employee rejected", func(t *testing.T) {
		svc := newService(&fakeLoanRepo{})

		_, err := svc.Create(ctx, loan.CreateLoanRequest{
			EmployeeID:        "ghost",
			Principal:         decimal.RequireFromString("50000"),
			AnnualRatePercent: decimal.RequireFromString("10"),
			InstallmentCount:  12,
			StartMonth:        7,
			StartYear:         2025,
		})
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})

	t.Run("invalid request rejected before any lookup", func(t *testing.T) {
		svc := newService(&fakeLoanRepo{})

		_, err := svc.Create(ctx, loan.CreateLoanRequest{
			EmployeeID:       "e1",
			Principal:        decimal.RequireFromString("-1"),
			InstallmentCount: 0,
			StartMonth:       7,
			StartYear:        2025,
		})
		require.Error(t, err)
	})
}
