package billing

import "time"

// periodMonths returns the length of one billing period for a plan.
func periodMonths(plan string) int {
	if NormalizePlan(plan) == PlanYearly {
		return 12
	}
	return 1
}

// NextBillingDate computes "same day-of-month, one period ahead" from the
// given reference time, clamped to the last day of the target month when the
// billing day does not exist there (billing day 31 in February lands on
// Feb 28/29). The result is a date at midnight UTC.
func NextBillingDate(from time.Time, billingDay int, plan string) time.Time {
	from = from.UTC()
	// Anchor on the first of the month so AddDate cannot normalize a short
	// month into the one after it (Jan 31 + 1 month must not become Mar 3).
	anchor := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	target := anchor.AddDate(0, periodMonths(plan), 0)

	day := billingDay
	if day < 1 {
		day = 1
	}
	if last := lastDayOfMonth(target.Year(), target.Month()); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, time.UTC)
}

func lastDayOfMonth(year int, month time.Month) int {
	// Day zero of the following month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
