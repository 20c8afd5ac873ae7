package loan

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/loan"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/google/uuid"
)

type LoanServiceImpl struct {
	txm          database.TxManager
	loanRepo     loan.LoanRepository
	employeeRepo employee.EmployeeRepository
}

func NewLoanService(
	txm database.TxManager,
	loanRepo loan.LoanRepository,
	employeeRepo employee.EmployeeRepository,
) loan.LoanService {
	return &LoanServiceImpl{
		txm:          txm,
		loanRepo:     loanRepo,
		employeeRepo: employeeRepo,
	}
}

func (s *LoanServiceImpl) Create(ctx context.Context, req loan.CreateLoanRequest) (loan.LoanResponse, error) {
	if err := req.Validate(); err != nil {
		return loan.LoanResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return loan.LoanResponse{}, err
	}

	installmentAmount, totalPayable, schedule, err := BuildSchedule(
		req.Principal, req.AnnualRatePercent, req.InstallmentCount, req.StartMonth, req.StartYear,
	)
	if err != nil {
		return loan.LoanResponse{}, err
	}

	record := loan.LoanRecord{
		ID:                uuid.NewString(),
		EmployeeID:        req.EmployeeID,
		Principal:         req.Principal,
		AnnualRatePercent: req.AnnualRatePercent,
		InstallmentCount:  req.InstallmentCount,
		InstallmentAmount: installmentAmount,
		TotalPayable:      totalPayable,
		StartMonth:        req.StartMonth,
		StartYear:         req.StartYear,
		PaidInstallments:  0,
		RemainingBalance:  totalPayable,
		Status:            loan.LoanStatusActive,
	}
	for i := range schedule {
		schedule[i].ID = uuid.NewString()
		schedule[i].LoanID = record.ID
	}
	record.Installments = schedule

	var created loan.LoanRecord
	err = s.txm.RunInTx(ctx, func(ctx context.Context) error {
		var txErr error
		created, txErr = s.loanRepo.Create(ctx, record)
		return txErr
	})
	if err != nil {
		return loan.LoanResponse{}, fmt.Errorf("failed to create loan: %w", err)
	}

	return mapToResponse(created), nil
}

func (s *LoanServiceImpl) Get(ctx context.Context, id string) (loan.LoanResponse, error) {
	record, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		return loan.LoanResponse{}, err
	}
	return mapToResponse(record), nil
}

func (s *LoanServiceImpl) Cancel(ctx context.Context, id string) error {
	return s.loanRepo.CancelLoan(ctx, id)
}

func (s *LoanServiceImpl) ListByEmployee(ctx context.Context, employeeID string) ([]loan.LoanResponse, error) {
	records, err := s.loanRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	result := make([]loan.LoanResponse, 0, len(records))
	for _, record := range records {
		result = append(result, mapToResponse(record))
	}
	return result, nil
}

func mapToResponse(r loan.LoanRecord) loan.LoanResponse {
	resp := loan.LoanResponse{
		ID:                r.ID,
		EmployeeID:        r.EmployeeID,
		Principal:         r.Principal,
		AnnualRatePercent: r.AnnualRatePercent,
		InstallmentCount:  r.InstallmentCount,
		InstallmentAmount: r.InstallmentAmount,
		TotalPayable:      r.TotalPayable,
		StartMonth:        r.StartMonth,
		StartYear:         r.StartYear,
		PaidInstallments:  r.PaidInstallments,
		RemainingBalance:  r.RemainingBalance,
		Status:            string(r.Status),
	}
	for _, inst := range r.Installments {
		resp.Installments = append(resp.Installments, loan.InstallmentResponse{
			ID:       inst.ID,
			Sequence: inst.Sequence,
			Amount:   inst.Amount,
			DueMonth: inst.DueMonth,
			DueYear:  inst.DueYear,
			Status:   string(inst.Status),
		})
	}
	return resp
}
