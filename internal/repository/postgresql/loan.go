package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/loan"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type loanRepositoryImpl struct {
	db *database.DB
}

func NewLoanRepository(db *database.DB) loan.LoanRepository {
	return &loanRepositoryImpl{db: db}
}

// Create implements loan.LoanRepository.
func (l *loanRepositoryImpl) Create(ctx context.Context, record loan.LoanRecord) (loan.LoanRecord, error) {
	q := database.QuerierFrom(ctx, l.db)

	query := `
		INSERT INTO loans (
			id, employee_id, principal, annual_rate_percent, installment_count, installment_amount,
			total_payable, start_month, start_year, paid_installments, remaining_balance, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.ID, record.EmployeeID, record.Principal, record.AnnualRatePercent,
		record.InstallmentCount, record.InstallmentAmount, record.TotalPayable,
		record.StartMonth, record.StartYear, record.PaidInstallments,
		record.RemainingBalance, record.Status,
	).Scan(&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return loan.LoanRecord{}, fmt.Errorf("failed to create loan for employee %s: %w", record.EmployeeID, err)
	}

	instQuery := `
		INSERT INTO loan_installments (id, loan_id, sequence, amount, due_month, due_year, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, inst := range record.Installments {
		if _, err := q.Exec(ctx, instQuery, inst.ID, record.ID, inst.Sequence, inst.Amount, inst.DueMonth, inst.DueYear, inst.Status); err != nil {
			return loan.LoanRecord{}, fmt.Errorf("failed to create installment %d of loan %s: %w", inst.Sequence, record.ID, err)
		}
	}

	return record, nil
}

// GetByID implements loan.LoanRepository.
func (l *loanRepositoryImpl) GetByID(ctx context.Context, id string) (loan.LoanRecord, error) {
	q := database.QuerierFrom(ctx, l.db)

	query := `
		SELECT id, employee_id, principal, annual_rate_percent, installment_count, installment_amount,
			total_payable, start_month, start_year, paid_installments, remaining_balance, status, created_at, updated_at
		FROM loans
		WHERE id = $1
	`

	var record loan.LoanRecord
	err := q.QueryRow(ctx, query, id).Scan(
		&record.ID, &record.EmployeeID, &record.Principal, &record.AnnualRatePercent,
		&record.InstallmentCount, &record.InstallmentAmount, &record.TotalPayable,
		&record.StartMonth, &record.StartYear, &record.PaidInstallments,
		&record.RemainingBalance, &record.Status, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return loan.LoanRecord{}, loan.ErrLoanNotFound
		}
		return loan.LoanRecord{}, fmt.Errorf("failed to get loan %s: %w", id, err)
	}

	record.Installments, err = l.installmentsFor(ctx, record.ID)
	if err != nil {
		return loan.LoanRecord{}, err
	}

	return record, nil
}

// ListByEmployee implements loan.LoanRepository.
func (l *loanRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]loan.LoanRecord, error) {
	q := database.QuerierFrom(ctx, l.db)

	query := `
		SELECT id, employee_id, principal, annual_rate_percent, installment_count, installment_amount,
			total_payable, start_month, start_year, paid_installments, remaining_balance, status, created_at, updated_at
		FROM loans
		WHERE employee_id = $1
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []loan.LoanRecord
	for rows.Next() {
		var record loan.LoanRecord
		err := rows.Scan(
			&record.ID, &record.EmployeeID, &record.Principal, &record.AnnualRatePercent,
			&record.InstallmentCount, &record.InstallmentAmount, &record.TotalPayable,
			&record.StartMonth, &record.StartYear, &record.PaidInstallments,
			&record.RemainingBalance, &record.Status, &record.CreatedAt, &record.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// PendingInstallmentsForPeriod implements loan.LoanRepository.
func (l *loanRepositoryImpl) PendingInstallmentsForPeriod(ctx context.Context, employeeID string, month, year int) ([]loan.LoanInstallment, error) {
	q := database.QuerierFrom(ctx, l.db)

	query := `
		SELECT i.id, i.loan_id, i.sequence, i.amount, i.due_month, i.due_year, i.status, i.paid_at, i.paid_in_run_id
		FROM loan_installments i
		JOIN loans lo ON lo.id = i.loan_id
		WHERE lo.employee_id = $1 AND lo.status = $2
			AND i.status = $3 AND i.due_month = $4 AND i.due_year = $5
		ORDER BY i.sequence ASC
	`

	rows, err := q.Query(ctx, query, employeeID, loan.LoanStatusActive, loan.InstallmentStatusPending, month, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var installments []loan.LoanInstallment
	for rows.Next() {
		var inst loan.LoanInstallment
		err := rows.Scan(
			&inst.ID, &inst.LoanID, &inst.Sequence, &inst.Amount,
			&inst.DueMonth, &inst.DueYear, &inst.Status, &inst.PaidAt, &inst.PaidInRunID,
		)
		if err != nil {
			return nil, err
		}
		installments = append(installments, inst)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return installments, nil
}

// MarkInstallmentPaid implements loan.LoanRepository. The owning loan's paid
// count and balance move in the same statement sequence; callers run this
// inside the pay-run processing transaction.
func (l *loanRepositoryImpl) MarkInstallmentPaid(ctx context.Context, installmentID string, payRunID string, amount decimal.Decimal) error {
	q := database.QuerierFrom(ctx, l.db)

	instQuery := `
		UPDATE loan_installments
		SET status = $1, paid_at = NOW(), paid_in_run_id = $2
		WHERE id = $3 AND status = $4
		RETURNING loan_id
	`

	var loanID string
	err := q.QueryRow(ctx, instQuery, loan.InstallmentStatusPaid, payRunID, installmentID, loan.InstallmentStatusPending).Scan(&loanID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return loan.ErrInstallmentNotFound
		}
		return fmt.Errorf("failed to mark installment %s paid: %w", installmentID, err)
	}

	loanQuery := `
		UPDATE loans
		SET paid_installments = paid_installments + 1,
			remaining_balance = remaining_balance - $1,
			status = CASE WHEN paid_installments + 1 >= installment_count THEN $2 ELSE status END,
			updated_at = NOW()
		WHERE id = $3
	`

	if _, err := q.Exec(ctx, loanQuery, amount, loan.LoanStatusCompleted, loanID); err != nil {
		return fmt.Errorf("failed to update loan %s after installment payment: %w", loanID, err)
	}

	return nil
}

// CancelLoan implements loan.LoanRepository.
func (l *loanRepositoryImpl) CancelLoan(ctx context.Context, id string) error {
	q := database.QuerierFrom(ctx, l.db)

	query := `
		UPDATE loans
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING id
	`

	var cancelledID string
	err := q.QueryRow(ctx, query, loan.LoanStatusCancelled, id, loan.LoanStatusActive).Scan(&cancelledID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return loan.ErrLoanNotFound
		}
		return fmt.Errorf("failed to cancel loan %s: %w", id, err)
	}

	return nil
}

func (l *loanRepositoryImpl) installmentsFor(ctx context.Context, loanID string) ([]loan.LoanInstallment, error) {
	q := database.QuerierFrom(ctx, l.db)

	query := `
		SELECT id, loan_id, sequence, amount, due_month, due_year, status, paid_at, paid_in_run_id
		FROM loan_installments
		WHERE loan_id = $1
		ORDER BY sequence ASC
	`

	rows, err := q.Query(ctx, query, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var installments []loan.LoanInstallment
	for rows.Next() {
		var inst loan.LoanInstallment
		err := rows.Scan(
			&inst.ID, &inst.LoanID, &inst.Sequence, &inst.Amount,
			&inst.DueMonth, &inst.DueYear, &inst.Status, &inst.PaidAt, &inst.PaidInRunID,
		)
		if err != nil {
			return nil, err
		}
		installments = append(installments, inst)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return installments, nil
}
