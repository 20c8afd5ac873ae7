package employee

import "context"

type EmployeeService interface {
	// SetSalaryStructure appends a structure revision for the employee. The
	// revision applies from its effective date onward; past pay runs keep the
	// snapshot they were generated with.
	SetSalaryStructure(ctx context.Context, req SetSalaryStructureRequest) (SalaryStructureResponse, error)
}
