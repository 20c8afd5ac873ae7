package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := database.QuerierFrom(ctx, e.db)

	query := `
		SELECT id, code, full_name, department, designation, active, join_date
		FROM employees
		WHERE id = $1
	`

	var emp employee.Employee
	err := q.QueryRow(ctx, query, id).Scan(
		&emp.ID, &emp.Code, &emp.FullName, &emp.Department, &emp.Designation, &emp.Active, &emp.JoinDate,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee %s: %w", id, err)
	}

	return emp, nil
}

// GetActiveRoster implements employee.EmployeeRepository. The lateral join
// picks each employee's latest structure with effective_from <= asOf; employees
// without one come back with NULL structure columns and a nil Structure.
func (e *employeeRepositoryImpl) GetActiveRoster(ctx context.Context, asOf time.Time) ([]employee.Employee, error) {
	q := database.QuerierFrom(ctx, e.db)

	query := `
		SELECT e.id, e.code, e.full_name, e.department, e.designation, e.active, e.join_date,
			s.id, s.ctc, s.basic_percent, s.hra_percent, s.conveyance, s.telephone, s.medical,
			s.other_allowances, s.employer_contribution, s.tds, s.includes_pf, s.includes_esi,
			s.payment_mode, s.effective_from, s.created_at
		FROM employees e
		LEFT JOIN LATERAL (
			SELECT *
			FROM salary_structures ss
			WHERE ss.employee_id = e.id AND ss.effective_from <= $1
			ORDER BY ss.effective_from DESC
			LIMIT 1
		) s ON TRUE
		WHERE e.active = TRUE
		ORDER BY e.code ASC
	`

	rows, err := q.Query(ctx, query, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roster []employee.Employee
	for rows.Next() {
		var emp employee.Employee
		var s scanSalaryStructure
		err := rows.Scan(
			&emp.ID, &emp.Code, &emp.FullName, &emp.Department, &emp.Designation, &emp.Active, &emp.JoinDate,
			&s.ID, &s.CTC, &s.BasicPercent, &s.HRAPercent, &s.Conveyance, &s.Telephone, &s.Medical,
			&s.OtherAllowances, &s.EmployerContribution, &s.TDS, &s.IncludesProvidentFund, &s.IncludesStateInsurance,
			&s.PaymentMode, &s.EffectiveFrom, &s.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		emp.Structure = s.toDomain(emp.ID)
		roster = append(roster, emp)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return roster, nil
}

// SetSalaryStructure implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) SetSalaryStructure(ctx context.Context, s employee.SalaryStructure) (employee.SalaryStructure, error) {
	q := database.QuerierFrom(ctx, e.db)

	query := `
		INSERT INTO salary_structures (
			id, employee_id, ctc, basic_percent, hra_percent, conveyance, telephone, medical,
			other_allowances, employer_contribution, tds, includes_pf, includes_esi, payment_mode, effective_from
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		s.ID, s.EmployeeID, s.CTC, s.BasicPercent, s.HRAPercent, s.Conveyance, s.Telephone, s.Medical,
		s.OtherAllowances, s.EmployerContribution, s.TDS, s.IncludesProvidentFund, s.IncludesStateInsurance,
		s.PaymentMode, s.EffectiveFrom,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return employee.SalaryStructure{}, fmt.Errorf("failed to set salary structure for employee %s: %w", s.EmployeeID, err)
	}

	return s, nil
}

// scanSalaryStructure holds the nullable structure side of the roster join.
type scanSalaryStructure struct {
	ID                     *string
	CTC                    decimal.NullDecimal
	BasicPercent           decimal.NullDecimal
	HRAPercent             decimal.NullDecimal
	Conveyance             decimal.NullDecimal
	Telephone              decimal.NullDecimal
	Medical                decimal.NullDecimal
	OtherAllowances        decimal.NullDecimal
	EmployerContribution   decimal.NullDecimal
	TDS                    decimal.NullDecimal
	IncludesProvidentFund  *bool
	IncludesStateInsurance *bool
	PaymentMode            *string
	EffectiveFrom          *time.Time
	CreatedAt              *time.Time
}

func (s scanSalaryStructure) toDomain(employeeID string) *employee.SalaryStructure {
	if s.ID == nil {
		return nil
	}
	return &employee.SalaryStructure{
		ID:                     *s.ID,
		EmployeeID:             employeeID,
		CTC:                    s.CTC.Decimal,
		BasicPercent:           s.BasicPercent.Decimal,
		HRAPercent:             s.HRAPercent.Decimal,
		Conveyance:             s.Conveyance.Decimal,
		Telephone:              s.Telephone.Decimal,
		Medical:                s.Medical.Decimal,
		OtherAllowances:        s.OtherAllowances.Decimal,
		EmployerContribution:   s.EmployerContribution.Decimal,
		TDS:                    s.TDS.Decimal,
		IncludesProvidentFund:  *s.IncludesProvidentFund,
		IncludesStateInsurance: *s.IncludesStateInsurance,
		PaymentMode:            employee.PaymentMode(*s.PaymentMode),
		EffectiveFrom:          *s.EffectiveFrom,
		CreatedAt:              *s.CreatedAt,
	}
}
