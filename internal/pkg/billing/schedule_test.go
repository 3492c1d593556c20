package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextBillingDate(t *testing.T) {
	tests := []struct {
		name       string
		from       time.Time
		billingDay int
		plan       string
		want       time.Time
	}{
		{
			name: "monthly mid-month",
			from: date(2026, time.March, 15), billingDay: 15, plan: PlanMonthly,
			want: date(2026, time.April, 15),
		},
		{
			name: "monthly year rollover",
			from: date(2026, time.December, 10), billingDay: 10, plan: PlanMonthly,
			want: date(2027, time.January, 10),
		},
		{
			name: "billing day 31 clamps to february",
			from: date(2026, time.January, 31), billingDay: 31, plan: PlanMonthly,
			want: date(2026, time.February, 28),
		},
		{
			name: "billing day 31 clamps to leap february",
			from: date(2028, time.January, 31), billingDay: 31, plan: PlanMonthly,
			want: date(2028, time.February, 29),
		},
		{
			name: "billing day 31 in a 30-day month",
			from: date(2026, time.March, 31), billingDay: 31, plan: PlanMonthly,
			want: date(2026, time.April, 30),
		},
		{
			name: "yearly",
			from: date(2026, time.June, 20), billingDay: 20, plan: PlanYearly,
			want: date(2027, time.June, 20),
		},
		{
			name: "yearly from leap day",
			from: date(2028, time.February, 29), billingDay: 29, plan: PlanYearly,
			want: date(2029, time.February, 28),
		},
		{
			name: "billing day below one is raised to the first",
			from: date(2026, time.May, 3), billingDay: 0, plan: PlanMonthly,
			want: date(2026, time.June, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextBillingDate(tt.from, tt.billingDay, tt.plan)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextBillingDateIsUTCMidnight(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	assert.NoError(t, err)

	from := time.Date(2026, time.July, 14, 23, 45, 0, 0, berlin)
	got := NextBillingDate(from, 14, PlanMonthly)

	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, date(2026, time.August, 14), got)
}
