package payrun

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPayRunStatus_CanTransition(t *testing.T) {
	cases := []struct {
		from, to PayRunStatus
		want     bool
	}{
		{PayRunStatusDraft, PayRunStatusApproved, true},
		{PayRunStatusDraft, PayRunStatusCancelled, true},
		{PayRunStatusDraft, PayRunStatusProcessed, false},
		{PayRunStatusApproved, PayRunStatusProcessed, true},
		{PayRunStatusApproved, PayRunStatusCancelled, true},
		{PayRunStatusApproved, PayRunStatusDraft, false},
		{PayRunStatusProcessed, PayRunStatusCancelled, false},
		{PayRunStatusProcessed, PayRunStatusProcessed, false},
		{PayRunStatusCancelled, PayRunStatusDraft, false},
		{PayRunStatusCancelled, PayRunStatusApproved, false},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, c.from.CanTransition(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestEmployeeRecord_TotalDeductions(t *testing.T) {
	r := EmployeeRecord{
		Deductions: StatutoryDeductions{
			PFEmployee:      decimal.NewFromInt(1800),
			PFEmployer:      decimal.NewFromInt(1800), // employer side is not deducted from the employee
			ESIEmployee:     decimal.NewFromFloat(131.25),
			ProfessionalTax: decimal.NewFromInt(200),
		},
		TDS:              decimal.NewFromInt(500),
		AdvanceDeduction: decimal.NewFromInt(1000),
		LoanDeduction:    decimal.NewFromFloat(4583.33),
	}

	want := decimal.NewFromFloat(8214.58)
	assert.True(t, r.TotalDeductions().Equal(want), "got %s", r.TotalDeductions())
}
