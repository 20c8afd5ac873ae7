package payrun

import "context"

type PayRunService interface {
	Generate(ctx context.Context, req GeneratePayRunRequest) (PayRunResponse, error)
	Approve(ctx context.Context, id string) error
	// Process applies the run's deductions to the source loan and advance
	// records. It is deliberately not idempotent: re-processing is rejected by
	// the status machine to prevent double deduction.
	Process(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (PayRunResponse, error)
	GetByPeriod(ctx context.Context, month, year int) (PayRunResponse, error)
	List(ctx context.Context) ([]PayRunSummaryResponse, error)
	Register(ctx context.Context, id string) (RegisterResponse, error)
}
