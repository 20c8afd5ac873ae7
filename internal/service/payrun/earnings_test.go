package payrun

import (
	"testing"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payrun"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestResolveEarnings(t *testing.T) {
	t.Run("standard structure balances to monthly ctc", func(t *testing.T) {
		s := employee.SalaryStructure{
			CTC:          dec("1200000"),
			BasicPercent: dec("50"),
			HRAPercent:   dec("40"),
			Conveyance:   dec("1600"),
			Telephone:    dec("1000"),
			Medical:      dec("1250"),
		}

		e, err := ResolveEarnings(s)
		require.NoError(t, err)

		assert.True(t, e.Basic.Equal(dec("50000")), "basic = %s", e.Basic)
		assert.True(t, e.HRA.Equal(dec("20000")), "hra = %s", e.HRA)
		assert.True(t, e.SpecialAllowance.Equal(dec("26150")), "special = %s", e.SpecialAllowance)
		assert.True(t, e.Gross.Equal(dec("100000")), "gross = %s", e.Gross)
	})

	t.Run("employer contribution reduces the balancing allowance", func(t *testing.T) {
		s := employee.SalaryStructure{
			CTC:                  dec("1200000"),
			BasicPercent:         dec("50"),
			HRAPercent:           dec("40"),
			EmployerContribution: dec("1800"),
		}

		e, err := ResolveEarnings(s)
		require.NoError(t, err)

		assert.True(t, e.SpecialAllowance.Equal(dec("28200")), "special = %s", e.SpecialAllowance)
		assert.True(t, e.Gross.Equal(dec("98200")), "gross = %s", e.Gross)
	})

	t.Run("other allowances sit on top of gross", func(t *testing.T) {
		s := employee.SalaryStructure{
			CTC:             dec("1200000"),
			BasicPercent:    dec("50"),
			HRAPercent:      dec("40"),
			OtherAllowances: dec("5000"),
		}

		e, err := ResolveEarnings(s)
		require.NoError(t, err)

		assert.True(t, e.Gross.Equal(dec("105000")), "gross = %s", e.Gross)
	})

	t.Run("fixed components exceeding monthly ctc fail", func(t *testing.T) {
		s := employee.SalaryStructure{
			CTC:          dec("120000"),
			BasicPercent: dec("50"),
			HRAPercent:   dec("40"),
			Conveyance:   dec("1600"),
			Telephone:    dec("1000"),
			Medical:      dec("1250"),
		}

		_, err := ResolveEarnings(s)
		assert.ErrorIs(t, err, payrun.ErrInconsistentSalaryStructure)
	})

	t.Run("uneven annual ctc rounds to paise", func(t *testing.T) {
		s := employee.SalaryStructure{
			CTC:          dec("1000000"),
			BasicPercent: dec("40"),
			HRAPercent:   dec("50"),
		}

		e, err := ResolveEarnings(s)
		require.NoError(t, err)

		assert.True(t, e.Basic.Equal(dec("33333.33")), "basic = %s", e.Basic)
		assert.True(t, e.HRA.Equal(dec("16666.67")), "hra = %s", e.HRA)
		// 1000000/12 rounds to 83333.33; the balance absorbs the residue.
		assert.True(t, e.SpecialAllowance.Equal(dec("33333.33")), "special = %s", e.SpecialAllowance)
	})
}
