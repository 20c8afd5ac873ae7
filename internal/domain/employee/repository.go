package employee

import (
	"context"
	"time"
)

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	// GetActiveRoster returns every active employee together with the salary
	// structure in force on asOf (latest effective_from <= asOf). Employees
	// without any structure are returned with a nil Structure so the
	// orchestrator can record them as excluded.
	GetActiveRoster(ctx context.Context, asOf time.Time) ([]Employee, error)
	// SetSalaryStructure appends a structure revision. Existing rows are never
	// updated; revisions apply prospectively.
	SetSalaryStructure(ctx context.Context, s SalaryStructure) (SalaryStructure, error)
}
