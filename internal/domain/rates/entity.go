package rates

import (
	"time"

	"github.com/shopspring/decimal"
)

// PTSlab is one professional-tax bracket. UpperBound is nil for the open-ended
// top slab. Slabs are stored ordered by ascending LowerBound.
type PTSlab struct {
	ID         string
	RateSetID  string
	LowerBound decimal.Decimal
	UpperBound *decimal.Decimal
	Amount     decimal.Decimal
}

// Contains reports whether gross falls inside the slab, lower bound inclusive,
// upper bound inclusive as well (the next slab starts above it).
func (s PTSlab) Contains(gross decimal.Decimal) bool {
	if gross.LessThan(s.LowerBound) {
		return false
	}
	if s.UpperBound == nil {
		return true
	}
	return gross.LessThanOrEqual(*s.UpperBound)
}

// RateSet holds the statutory constants in force from EffectiveFrom onward.
// Sets are append-only; resolving by date keeps historical pay runs reproducible.
type RateSet struct {
	ID              string
	EffectiveFrom   time.Time
	PFRate          decimal.Decimal
	PFWageCeiling   decimal.Decimal
	ESIRate         decimal.Decimal
	ESIEmployerRate decimal.Decimal
	ESIWageCeiling  decimal.Decimal
	PTSlabs         []PTSlab
	CreatedAt       time.Time
}

// ProfessionalTax returns the amount of the first slab containing gross, or
// zero when no slab matches.
func (r RateSet) ProfessionalTax(gross decimal.Decimal) decimal.Decimal {
	for _, slab := range r.PTSlabs {
		if slab.Contains(gross) {
			return slab.Amount
		}
	}
	return decimal.Zero
}
