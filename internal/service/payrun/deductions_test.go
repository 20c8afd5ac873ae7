package payrun

import (
	"testing"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payrun"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/rates"
	"github.com/stretchr/testify/assert"
)

func testRateSet() rates.RateSet {
	upper1 := dec("10000")
	upper2 := dec("15000")
	return rates.RateSet{
		ID:              "rs-1",
		PFRate:          dec("12"),
		PFWageCeiling:   dec("15000"),
		ESIRate:         dec("0.75"),
		ESIEmployerRate: dec("3.25"),
		ESIWageCeiling:  dec("21000"),
		PTSlabs: []rates.PTSlab{
			{LowerBound: dec("0"), UpperBound: &upper1, Amount: dec("0")},
			{LowerBound: dec("10000"), UpperBound: &upper2, Amount: dec("150")},
			{LowerBound: dec("15000"), UpperBound: nil, Amount: dec("200")},
		},
	}
}

func TestComputeDeductions(t *testing.T) {
	rs := testRateSet()
	enrolled := employee.SalaryStructure{
		IncludesProvidentFund:  true,
		IncludesStateInsurance: true,
	}

	t.Run("pf capped at wage ceiling", func(t *testing.T) {
		e := payrun.Earnings{Basic: dec("50000"), Gross: dec("100000")}

		d := ComputeDeductions(e, enrolled, rs)

		assert.True(t, d.PFEmployee.Equal(dec("1800")), "pf employee = %s", d.PFEmployee)
		assert.True(t, d.PFEmployer.Equal(d.PFEmployee), "employer matches employee")
	})

	t.Run("pf on actual basic below ceiling", func(t *testing.T) {
		e := payrun.Earnings{Basic: dec("12000"), Gross: dec("20000")}

		d := ComputeDeductions(e, enrolled, rs)

		assert.True(t, d.PFEmployee.Equal(dec("1440")), "pf employee = %s", d.PFEmployee)
	})

	t.Run("pf skipped when not enrolled", func(t *testing.T) {
		e := payrun.Earnings{Basic: dec("12000"), Gross: dec("20000")}
		s := employee.SalaryStructure{IncludesStateInsurance: true}

		d := ComputeDeductions(e, s, rs)

		assert.True(t, d.PFEmployee.IsZero())
		assert.True(t, d.PFEmployer.IsZero())
	})

	t.Run("esi below ceiling", func(t *testing.T) {
		e := payrun.Earnings{Basic: dec("10000"), Gross: dec("20000")}

		d := ComputeDeductions(e, enrolled, rs)

		assert.True(t, d.ESIEmployee.Equal(dec("150")), "esi employee = %s", d.ESIEmployee)
		assert.True(t, d.ESIEmployer.Equal(dec("650")), "esi employer = %s", d.ESIEmployer)
	})

	t.Run("esi zero exactly at ceiling", func(t *testing.T) {
		e := payrun.Earnings{Basic: dec("10500"), Gross: dec("21000")}

		d := ComputeDeductions(e, enrolled, rs)

		assert.True(t, d.ESIEmployee.IsZero())
		assert.True(t, d.ESIEmployer.IsZero())
	})

	t.Run("esi eligibility follows gross across periods", func(t *testing.T) {
		low := ComputeDeductions(payrun.Earnings{Gross: dec("20000")}, enrolled, rs)
		high := ComputeDeductions(payrun.Earnings{Gross: dec("25000")}, enrolled, rs)

		assert.False(t, low.ESIEmployee.IsZero())
		assert.True(t, high.ESIEmployee.IsZero())
	})

	t.Run("professional tax slabs", func(t *testing.T) {
		cases := []struct {
			gross string
			want  string
		}{
			{"8000", "0"},
			{"10000", "0"},
			{"10000.01", "150"},
			{"15000", "150"},
			{"15000.01", "200"},
			{"100000", "200"},
		}
		for _, c := range cases {
			d := ComputeDeductions(payrun.Earnings{Gross: dec(c.gross)}, employee.SalaryStructure{}, rs)
			assert.True(t, d.ProfessionalTax.Equal(dec(c.want)), "gross %s: pt = %s", c.gross, d.ProfessionalTax)
		}
	})
}
