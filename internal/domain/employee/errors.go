package employee

import "errors"

var (
	ErrEmployeeNotFound        = errors.New("employee not found")
	ErrSalaryStructureNotFound = errors.New("employee has no salary structure for the period")
)
