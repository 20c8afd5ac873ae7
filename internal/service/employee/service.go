package employee

import (
	"context"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/google/uuid"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{employeeRepo: employeeRepo}
}

// SetSalaryStructure implements employee.EmployeeService.
func (s *EmployeeServiceImpl) SetSalaryStructure(ctx context.Context, req employee.SetSalaryStructureRequest) (employee.SalaryStructureResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.SalaryStructureResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return employee.SalaryStructureResponse{}, err
	}

	effectiveFrom, err := time.Parse("2006-01-02", req.EffectiveFrom)
	if err != nil {
		return employee.SalaryStructureResponse{}, err
	}

	structure := employee.SalaryStructure{
		ID:                     uuid.NewString(),
		EmployeeID:             req.EmployeeID,
		CTC:                    req.CTC,
		BasicPercent:           req.BasicPercent,
		HRAPercent:             req.HRAPercent,
		Conveyance:             req.Conveyance,
		Telephone:              req.Telephone,
		Medical:                req.Medical,
		OtherAllowances:        req.OtherAllowances,
		EmployerContribution:   req.EmployerContribution,
		TDS:                    req.TDS,
		IncludesProvidentFund:  req.IncludesProvidentFund,
		IncludesStateInsurance: req.IncludesStateInsurance,
		PaymentMode:            employee.PaymentMode(req.PaymentMode),
		EffectiveFrom:          effectiveFrom,
	}

	created, err := s.employeeRepo.SetSalaryStructure(ctx, structure)
	if err != nil {
		return employee.SalaryStructureResponse{}, err
	}

	return employee.SalaryStructureResponse{
		ID:                     created.ID,
		EmployeeID:             created.EmployeeID,
		CTC:                    created.CTC,
		BasicPercent:           created.BasicPercent,
		HRAPercent:             created.HRAPercent,
		Conveyance:             created.Conveyance,
		Telephone:              created.Telephone,
		Medical:                created.Medical,
		OtherAllowances:        created.OtherAllowances,
		EmployerContribution:   created.EmployerContribution,
		TDS:                    created.TDS,
		IncludesProvidentFund:  created.IncludesProvidentFund,
		IncludesStateInsurance: created.IncludesStateInsurance,
		PaymentMode:            string(created.PaymentMode),
		EffectiveFrom:          created.EffectiveFrom.Format("2006-01-02"),
	}, nil
}
