package entitlements

import (
	"strings"

	"github.com/castboard/castboard/app/models"
)

type Plan string

const (
	PlanNone    Plan = "none"
	PlanMonthly Plan = "monthly"
	PlanYearly  Plan = "yearly"
)

// GalleryLimit returns how many galleries a plan may hold. Yearly customers
// get more room, accounts without a subscription keep read access only.
func GalleryLimit(plan Plan) int {
	switch plan {
	case PlanYearly:
		return 50
	case PlanMonthly:
		return 20
	default:
		return 0
	}
}

// CustomDomainAllowed combines the plan with the booked add-on. The add-on
// is priced per plan, so both have to agree.
func CustomDomainAllowed(billing *models.Billing) bool {
	if billing == nil {
		return false
	}
	return billing.CustomAddOnFee > 0
}

// FromBilling maps a billing row onto a plan, tolerating missing rows.
func FromBilling(billing *models.Billing) Plan {
	if billing == nil {
		return PlanNone
	}
	switch strings.ToLower(billing.BillingType) {
	case string(PlanMonthly):
		return PlanMonthly
	case string(PlanYearly):
		return PlanYearly
	default:
		return PlanNone
	}
}
