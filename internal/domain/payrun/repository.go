package payrun

import (
	"context"
	"time"
)

type PayRunRepository interface {
	// AcquirePeriodLock takes a transaction-scoped advisory lock on the period
	// so that concurrent generation attempts for the same (month, year)
	// serialize. Must be called inside a transaction.
	AcquirePeriodLock(ctx context.Context, month, year int) error
	// ExistsForPeriod reports whether a non-cancelled pay run exists for the period.
	ExistsForPeriod(ctx context.Context, month, year int) (bool, error)
	// Create persists the run with all employee records, exclusions and
	// source-record touch links. Callers wrap it in a transaction so a crash
	// mid-roster leaves nothing behind.
	Create(ctx context.Context, run PayRun) (PayRun, error)
	GetByID(ctx context.Context, id string) (PayRun, error)
	GetByPeriod(ctx context.Context, month, year int) (PayRun, error)
	List(ctx context.Context) ([]PayRun, error)
	// UpdateStatus performs a guarded transition: the row is updated only if
	// its current status equals from, otherwise ErrInvalidStatusTransition.
	UpdateStatus(ctx context.Context, id string, from, to PayRunStatus, at time.Time) error
	// Cancel moves a draft or approved run to cancelled. Processed runs are
	// never cancellable; that would require a compensating reversal.
	Cancel(ctx context.Context, id string, at time.Time) error
}
