package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/rates"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type rateRepositoryImpl struct {
	db *database.DB
}

func NewRateRepository(db *database.DB) rates.RateRepository {
	return &rateRepositoryImpl{db: db}
}

// Create implements rates.RateRepository.
func (r *rateRepositoryImpl) Create(ctx context.Context, set rates.RateSet) (rates.RateSet, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		INSERT INTO rate_sets (id, effective_from, pf_rate, pf_wage_ceiling, esi_rate, esi_employer_rate, esi_wage_ceiling)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, effective_from, pf_rate, pf_wage_ceiling, esi_rate, esi_employer_rate, esi_wage_ceiling, created_at
	`

	var created rates.RateSet
	err := q.QueryRow(ctx, query,
		set.ID, set.EffectiveFrom, set.PFRate, set.PFWageCeiling,
		set.ESIRate, set.ESIEmployerRate, set.ESIWageCeiling,
	).Scan(
		&created.ID, &created.EffectiveFrom, &created.PFRate, &created.PFWageCeiling,
		&created.ESIRate, &created.ESIEmployerRate, &created.ESIWageCeiling, &created.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "rate_sets_effective_from_key") {
			return rates.RateSet{}, rates.ErrRateSetDateExists
		}
		return rates.RateSet{}, fmt.Errorf("failed to create rate set: %w", err)
	}

	slabQuery := `
		INSERT INTO pt_slabs (id, rate_set_id, lower_bound, upper_bound, amount)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, slab := range set.PTSlabs {
		if _, err := q.Exec(ctx, slabQuery, slab.ID, created.ID, slab.LowerBound, slab.UpperBound, slab.Amount); err != nil {
			return rates.RateSet{}, fmt.Errorf("failed to create professional tax slab: %w", err)
		}
	}
	created.PTSlabs = set.PTSlabs

	return created, nil
}

// GetEffective implements rates.RateRepository.
func (r *rateRepositoryImpl) GetEffective(ctx context.Context, date time.Time) (rates.RateSet, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		SELECT id, effective_from, pf_rate, pf_wage_ceiling, esi_rate, esi_employer_rate, esi_wage_ceiling, created_at
		FROM rate_sets
		WHERE effective_from <= $1
		ORDER BY effective_from DESC
		LIMIT 1
	`

	var set rates.RateSet
	err := q.QueryRow(ctx, query, date).Scan(
		&set.ID, &set.EffectiveFrom, &set.PFRate, &set.PFWageCeiling,
		&set.ESIRate, &set.ESIEmployerRate, &set.ESIWageCeiling, &set.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return rates.RateSet{}, rates.ErrNoRateSetForDate
		}
		return rates.RateSet{}, fmt.Errorf("failed to resolve rate set for %s: %w", date.Format("2006-01-02"), err)
	}

	set.PTSlabs, err = r.slabsFor(ctx, set.ID)
	if err != nil {
		return rates.RateSet{}, err
	}

	return set, nil
}

// GetByID implements rates.RateRepository.
func (r *rateRepositoryImpl) GetByID(ctx context.Context, id string) (rates.RateSet, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		SELECT id, effective_from, pf_rate, pf_wage_ceiling, esi_rate, esi_employer_rate, esi_wage_ceiling, created_at
		FROM rate_sets
		WHERE id = $1
	`

	var set rates.RateSet
	err := q.QueryRow(ctx, query, id).Scan(
		&set.ID, &set.EffectiveFrom, &set.PFRate, &set.PFWageCeiling,
		&set.ESIRate, &set.ESIEmployerRate, &set.ESIWageCeiling, &set.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return rates.RateSet{}, rates.ErrRateSetNotFound
		}
		return rates.RateSet{}, fmt.Errorf("failed to get rate set %s: %w", id, err)
	}

	set.PTSlabs, err = r.slabsFor(ctx, set.ID)
	if err != nil {
		return rates.RateSet{}, err
	}

	return set, nil
}

// List implements rates.RateRepository.
func (r *rateRepositoryImpl) List(ctx context.Context) ([]rates.RateSet, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		SELECT id, effective_from, pf_rate, pf_wage_ceiling, esi_rate, esi_employer_rate, esi_wage_ceiling, created_at
		FROM rate_sets
		ORDER BY effective_from DESC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []rates.RateSet
	for rows.Next() {
		var set rates.RateSet
		err := rows.Scan(
			&set.ID, &set.EffectiveFrom, &set.PFRate, &set.PFWageCeiling,
			&set.ESIRate, &set.ESIEmployerRate, &set.ESIWageCeiling, &set.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	for i := range sets {
		sets[i].PTSlabs, err = r.slabsFor(ctx, sets[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return sets, nil
}

func (r *rateRepositoryImpl) slabsFor(ctx context.Context, rateSetID string) ([]rates.PTSlab, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		SELECT id, rate_set_id, lower_bound, upper_bound, amount
		FROM pt_slabs
		WHERE rate_set_id = $1
		ORDER BY lower_bound ASC
	`

	rows, err := q.Query(ctx, query, rateSetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slabs []rates.PTSlab
	for rows.Next() {
		var slab rates.PTSlab
		if err := rows.Scan(&slab.ID, &slab.RateSetID, &slab.LowerBound, &slab.UpperBound, &slab.Amount); err != nil {
			return nil, err
		}
		slabs = append(slabs, slab)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return slabs, nil
}
