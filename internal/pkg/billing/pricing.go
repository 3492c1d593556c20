package billing

import "strings"

const (
	PlanMonthly = "monthly"
	PlanYearly  = "yearly"
)

// Currency is the only currency the price table is defined in. All amounts
// are minor units (cents).
const Currency = "EUR"

const (
	setupFee = 4900

	monthlyRecurring = 2900
	monthlyAddOn     = 900

	yearlyRecurring = 29000
	yearlyAddOn     = 9000
)

// PriceBreakdown is the full charge composition for one plan choice.
// InitialAmount is what the checkout session collects up front.
type PriceBreakdown struct {
	SetupFee        int64  `json:"setup_fee"`
	RecurringAmount int64  `json:"recurring_amount"`
	AddOnFee        int64  `json:"add_on_fee"`
	InitialAmount   int64  `json:"initial_amount"`
	Currency        string `json:"currency"`
}

// CalculatePrice maps a plan and the custom-domain add-on flag onto the
// price table. It is pure and serves both checkout line items and the
// billing overview, so the two can never drift apart.
func CalculatePrice(plan string, customDomainAddOn bool) (PriceBreakdown, error) {
	breakdown := PriceBreakdown{
		SetupFee: setupFee,
		Currency: Currency,
	}

	switch NormalizePlan(plan) {
	case PlanMonthly:
		breakdown.RecurringAmount = monthlyRecurring
		if customDomainAddOn {
			breakdown.AddOnFee = monthlyAddOn
		}
	case PlanYearly:
		breakdown.RecurringAmount = yearlyRecurring
		if customDomainAddOn {
			breakdown.AddOnFee = yearlyAddOn
		}
	default:
		return PriceBreakdown{}, ErrUnknownPlan
	}

	breakdown.InitialAmount = breakdown.SetupFee + breakdown.RecurringAmount + breakdown.AddOnFee
	return breakdown, nil
}

// NormalizePlan canonicalizes user-supplied plan names; anything unknown
// comes back empty.
func NormalizePlan(plan string) string {
	switch strings.ToLower(strings.TrimSpace(plan)) {
	case PlanMonthly, "month", "short":
		return PlanMonthly
	case PlanYearly, "year", "long":
		return PlanYearly
	default:
		return ""
	}
}
