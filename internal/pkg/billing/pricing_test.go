package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePrice(t *testing.T) {
	tests := []struct {
		name      string
		plan      string
		addOn     bool
		recurring int64
		addOnFee  int64
	}{
		{name: "monthly", plan: "monthly", recurring: 2900},
		{name: "monthly with custom domain", plan: "monthly", addOn: true, recurring: 2900, addOnFee: 900},
		{name: "yearly", plan: "yearly", recurring: 29000},
		{name: "yearly with custom domain", plan: "yearly", addOn: true, recurring: 29000, addOnFee: 9000},
		{name: "alias month", plan: "Month", recurring: 2900},
		{name: "alias long", plan: "long", recurring: 29000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := CalculatePrice(tt.plan, tt.addOn)
			assert.NoError(t, err)
			assert.Equal(t, int64(4900), price.SetupFee)
			assert.Equal(t, tt.recurring, price.RecurringAmount)
			assert.Equal(t, tt.addOnFee, price.AddOnFee)
			assert.Equal(t, price.SetupFee+price.RecurringAmount+price.AddOnFee, price.InitialAmount)
			assert.Equal(t, "EUR", price.Currency)
		})
	}
}

func TestCalculatePriceUnknownPlan(t *testing.T) {
	for _, plan := range []string{"", "weekly", "lifetime"} {
		_, err := CalculatePrice(plan, false)
		assert.ErrorIs(t, err, ErrUnknownPlan, "plan %q", plan)
	}
}

func TestNormalizePlan(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"monthly", PlanMonthly},
		{" Month ", PlanMonthly},
		{"short", PlanMonthly},
		{"yearly", PlanYearly},
		{"YEAR", PlanYearly},
		{"long", PlanYearly},
		{"weekly", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePlan(tt.in), "input %q", tt.in)
	}
}
