package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/advance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type advanceRepositoryImpl struct {
	db *database.DB
}

func NewAdvanceRepository(db *database.DB) advance.AdvanceRepository {
	return &advanceRepositoryImpl{db: db}
}

// Create implements advance.AdvanceRepository.
func (a *advanceRepositoryImpl) Create(ctx context.Context, record advance.AdvanceRecord) (advance.AdvanceRecord, error) {
	q := database.QuerierFrom(ctx, a.db)

	query := `
		INSERT INTO advances (
			id, employee_id, amount, paid_month, paid_year, recovery_month, recovery_year, remaining_amount, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.ID, record.EmployeeID, record.Amount, record.PaidMonth, record.PaidYear,
		record.RecoveryMonth, record.RecoveryYear, record.RemainingAmount, record.Status,
	).Scan(&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return advance.AdvanceRecord{}, fmt.Errorf("failed to create advance for employee %s: %w", record.EmployeeID, err)
	}

	return record, nil
}

// GetByID implements advance.AdvanceRepository.
func (a *advanceRepositoryImpl) GetByID(ctx context.Context, id string) (advance.AdvanceRecord, error) {
	q := database.QuerierFrom(ctx, a.db)

	query := `
		SELECT id, employee_id, amount, paid_month, paid_year, recovery_month, recovery_year,
			remaining_amount, status, created_at, updated_at
		FROM advances
		WHERE id = $1
	`

	var record advance.AdvanceRecord
	err := q.QueryRow(ctx, query, id).Scan(
		&record.ID, &record.EmployeeID, &record.Amount, &record.PaidMonth, &record.PaidYear,
		&record.RecoveryMonth, &record.RecoveryYear, &record.RemainingAmount, &record.Status,
		&record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return advance.AdvanceRecord{}, advance.ErrAdvanceNotFound
		}
		return advance.AdvanceRecord{}, fmt.Errorf("failed to get advance %s: %w", id, err)
	}

	return record, nil
}

// ListByEmployee implements advance.AdvanceRepository.
func (a *advanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]advance.AdvanceRecord, error) {
	q := database.QuerierFrom(ctx, a.db)

	query := `
		SELECT id, employee_id, amount, paid_month, paid_year, recovery_month, recovery_year,
			remaining_amount, status, created_at, updated_at
		FROM advances
		WHERE employee_id = $1
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []advance.AdvanceRecord
	for rows.Next() {
		var record advance.AdvanceRecord
		err := rows.Scan(
			&record.ID, &record.EmployeeID, &record.Amount, &record.PaidMonth, &record.PaidYear,
			&record.RecoveryMonth, &record.RecoveryYear, &record.RemainingAmount, &record.Status,
			&record.CreatedAt, &record.UpdatedAt,
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

// RecoverableForPeriod implements advance.AdvanceRepository.
func (a *advanceRepositoryImpl) RecoverableForPeriod(ctx context.Context, employeeID string, month, year int) ([]advance.AdvanceRecord, error) {
	q := database.QuerierFrom(ctx, a.db)

	query := `
		SELECT id, employee_id, amount, paid_month, paid_year, recovery_month, recovery_year,
			remaining_amount, status, created_at, updated_at
		FROM advances
		WHERE employee_id = $1 AND recovery_month = $2 AND recovery_year = $3 AND status <> $4
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, employeeID, month, year, advance.AdvanceStatusDeducted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []advance.AdvanceRecord
	for rows.Next() {
		var record advance.AdvanceRecord
		err := rows.Scan(
			&record.ID, &record.EmployeeID, &record.Amount, &record.PaidMonth, &record.PaidYear,
			&record.RecoveryMonth, &record.RecoveryYear, &record.RemainingAmount, &record.Status,
			&record.CreatedAt, &record.UpdatedAt,
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

// ApplyDeduction implements advance.AdvanceRepository.
func (a *advanceRepositoryImpl) ApplyDeduction(ctx context.Context, advanceID string, deducted decimal.Decimal) error {
	q := database.QuerierFrom(ctx, a.db)

	query := `
		UPDATE advances
		SET remaining_amount = remaining_amount - $1,
			status = CASE WHEN remaining_amount - $1 <= 0 THEN $2 ELSE $3 END,
			updated_at = NOW()
		WHERE id = $4 AND status <> $2
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, deducted, advance.AdvanceStatusDeducted, advance.AdvanceStatusPartial, advanceID).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return advance.ErrAdvanceNotFound
		}
		return fmt.Errorf("failed to apply deduction to advance %s: %w", advanceID, err)
	}

	return nil
}
