package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/advance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/loan"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payrun"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/rates"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, jwt.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")

	// Pay run domain errors
	case errors.Is(err, payrun.ErrPayRunNotFound):
		NotFound(w, "Pay run not found")
	case errors.Is(err, payrun.ErrDuplicatePayRun):
		Conflict(w, "A pay run already exists for this period")
	case errors.Is(err, payrun.ErrInvalidStatusTransition):
		Conflict(w, "Pay run is not in a state that allows this operation")
	case errors.Is(err, payrun.ErrEmptyRoster):
		UnprocessableEntity(w, "No active employees found for the period")
	case errors.Is(err, payrun.ErrInconsistentSalaryStructure):
		UnprocessableEntity(w, "Salary structure components exceed monthly CTC")

	// Rate table errors
	case errors.Is(err, rates.ErrNoRateSetForDate):
		UnprocessableEntity(w, "No statutory rate set covers the requested date")
	case errors.Is(err, rates.ErrRateSetNotFound):
		NotFound(w, "Rate set not found")
	case errors.Is(err, rates.ErrRateSetDateExists):
		Conflict(w, "A rate set with this effective date already exists")

	// Employee errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrSalaryStructureNotFound):
		NotFound(w, "Employee has no salary structure")

	// Loan errors
	case errors.Is(err, loan.ErrLoanNotFound):
		NotFound(w, "Loan not found")
	case errors.Is(err, loan.ErrInstallmentNotFound):
		NotFound(w, "Loan installment not found")
	case errors.Is(err, loan.ErrInvalidLoanTerms):
		UnprocessableEntity(w, "Loan terms are invalid")

	// Advance errors
	case errors.Is(err, advance.ErrAdvanceNotFound):
		NotFound(w, "Advance not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
