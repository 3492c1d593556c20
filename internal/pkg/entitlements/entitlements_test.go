package entitlements

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/castboard/castboard/app/models"
)

func TestGalleryLimit(t *testing.T) {
	assert.Equal(t, 20, GalleryLimit(PlanMonthly))
	assert.Equal(t, 50, GalleryLimit(PlanYearly))
	assert.Equal(t, 0, GalleryLimit(PlanNone))
	assert.Equal(t, 0, GalleryLimit(Plan("bogus")))
}

func TestCustomDomainAllowed(t *testing.T) {
	assert.False(t, CustomDomainAllowed(nil))
	assert.False(t, CustomDomainAllowed(&models.Billing{}))
	assert.True(t, CustomDomainAllowed(&models.Billing{CustomAddOnFee: 900}))
}

func TestFromBilling(t *testing.T) {
	assert.Equal(t, PlanNone, FromBilling(nil))
	assert.Equal(t, PlanMonthly, FromBilling(&models.Billing{BillingType: "monthly"}))
	assert.Equal(t, PlanYearly, FromBilling(&models.Billing{BillingType: "Yearly"}))
	assert.Equal(t, PlanNone, FromBilling(&models.Billing{BillingType: "trial"}))
}
