package loan

import "context"

type LoanService interface {
	Create(ctx context.Context, req CreateLoanRequest) (LoanResponse, error)
	Get(ctx context.Context, id string) (LoanResponse, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]LoanResponse, error)
	// Cancel stops future recovery of an active loan. Installments already
	// collected by processed pay runs are untouched.
	Cancel(ctx context.Context, id string) error
}
