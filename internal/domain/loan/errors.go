package loan

import "errors"

var (
	ErrLoanNotFound        = errors.New("loan not found")
	ErrInvalidLoanTerms    = errors.New("invalid loan terms")
	ErrInstallmentNotFound = errors.New("loan installment not found")
)
