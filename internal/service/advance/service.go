package advance

import (
	"context"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/advance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/google/uuid"
)

type AdvanceServiceImpl struct {
	advanceRepo  advance.AdvanceRepository
	employeeRepo employee.EmployeeRepository
}

func NewAdvanceService(
	advanceRepo advance.AdvanceRepository,
	employeeRepo employee.EmployeeRepository,
) advance.AdvanceService {
	return &AdvanceServiceImpl{
		advanceRepo:  advanceRepo,
		employeeRepo: employeeRepo,
	}
}

func (s *AdvanceServiceImpl) Create(ctx context.Context, req advance.CreateAdvanceRequest) (advance.AdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return advance.AdvanceResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return advance.AdvanceResponse{}, err
	}

	record := advance.AdvanceRecord{
		ID:              uuid.NewString(),
		EmployeeID:      req.EmployeeID,
		Amount:          req.Amount,
		PaidMonth:       req.PaidMonth,
		PaidYear:        req.PaidYear,
		RecoveryMonth:   req.RecoveryMonth,
		RecoveryYear:    req.RecoveryYear,
		RemainingAmount: req.Amount,
		Status:          advance.AdvanceStatusPending,
	}

	created, err := s.advanceRepo.Create(ctx, record)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}

	return mapToResponse(created), nil
}

func (s *AdvanceServiceImpl) Get(ctx context.Context, id string) (advance.AdvanceResponse, error) {
	record, err := s.advanceRepo.GetByID(ctx, id)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	return mapToResponse(record), nil
}

func (s *AdvanceServiceImpl) ListByEmployee(ctx context.Context, employeeID string) ([]advance.AdvanceResponse, error) {
	records, err := s.advanceRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	result := make([]advance.AdvanceResponse, 0, len(records))
	for _, record := range records {
		result = append(result, mapToResponse(record))
	}
	return result, nil
}

func mapToResponse(r advance.AdvanceRecord) advance.AdvanceResponse {
	return advance.AdvanceResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		Amount:          r.Amount,
		PaidMonth:       r.PaidMonth,
		PaidYear:        r.PaidYear,
		RecoveryMonth:   r.RecoveryMonth,
		RecoveryYear:    r.RecoveryYear,
		RemainingAmount: r.RemainingAmount,
		Status:          string(r.Status),
	}
}
