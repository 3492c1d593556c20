package billing

import (
	"context"
	"testing"

	"github.com/castboard/castboard/app/models"
	"github.com/castboard/castboard/internal/pkg/payment"
	"github.com/stretchr/testify/assert"
)

func validCheckoutRequest() CheckoutRequest {
	return CheckoutRequest{
		FirstName:         "Jane",
		LastName:          "Doe",
		Email:             "Jane@Example.com",
		Phone:             "+49 170 1234567",
		City:              "Berlin",
		Country:           "Germany",
		Purposes:          []string{"model", "actor"},
		Plan:              "monthly",
		CustomDomainAddOn: true,
	}
}

func TestInitiateCheckoutCreatesPendingApplication(t *testing.T) {
	svc, repo, _, _ := newTestService()

	handle, err := svc.InitiateCheckout(context.Background(), validCheckoutRequest())
	assert.NoError(t, err)
	assert.Equal(t, "cs_test_1", handle.SessionRef)
	assert.Contains(t, handle.RedirectURL, handle.SessionRef)
	assert.NotEmpty(t, handle.ApplicationUUID)

	app, err := repo.ApplicationBySessionRef(handle.SessionRef)
	assert.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusPending, app.Status)
	assert.Equal(t, "jane@example.com", app.Email)
	assert.Equal(t, PlanMonthly, app.Plan)
	assert.Equal(t, "model,actor", app.Purposes)
	assert.True(t, app.CustomDomainAddOn)
	assert.False(t, app.Processed)
}

func TestInitiateCheckoutRejectsUnknownPlan(t *testing.T) {
	svc, repo, _, _ := newTestService()

	req := validCheckoutRequest()
	req.Plan = "lifetime"
	_, err := svc.InitiateCheckout(context.Background(), req)
	assert.ErrorIs(t, err, ErrUnknownPlan)
	assert.Empty(t, repo.apps)
}

func TestInitiateCheckoutRejectsInvalidInput(t *testing.T) {
	svc, repo, _, _ := newTestService()

	req := validCheckoutRequest()
	req.Email = "not-an-email"
	_, err := svc.InitiateCheckout(context.Background(), req)
	assert.Error(t, err)
	assert.Empty(t, repo.apps)
}

func TestInitiateCheckoutProcessorFailureLeavesPendingApplication(t *testing.T) {
	svc, repo, gateway, _ := newTestService()
	gateway.failCheckout = errInjected

	_, err := svc.InitiateCheckout(context.Background(), validCheckoutRequest())
	assert.ErrorIs(t, err, errInjected)

	// The intake row survives without a session ref; retrying opens a new one.
	assert.Len(t, repo.apps, 1)
	for _, app := range repo.apps {
		assert.Equal(t, models.ApplicationStatusPending, app.Status)
		assert.Empty(t, app.CheckoutSessionRef)
	}

	gateway.failCheckout = nil
	handle, err := svc.InitiateCheckout(context.Background(), validCheckoutRequest())
	assert.NoError(t, err)
	assert.Equal(t, "cs_test_1", handle.SessionRef)
}

func TestVerifyCheckoutSessionProvisionsLikeTheWebhook(t *testing.T) {
	svc, repo, gateway, _ := newTestService()

	handle, err := svc.InitiateCheckout(context.Background(), validCheckoutRequest())
	assert.NoError(t, err)

	gateway.sessionDetails[handle.SessionRef] = &payment.SessionDetails{
		ID:              handle.SessionRef,
		PaymentStatus:   payment.PaymentStatusPaid,
		PaymentRef:      "py_1",
		CustomerRef:     "cus_1",
		SubscriptionRef: "sub_1",
		AmountTotal:     8700,
		Currency:        "EUR",
		CustomerEmail:   "jane@example.com",
	}

	result, err := svc.VerifyCheckoutSession(context.Background(), handle.SessionRef)
	assert.NoError(t, err)
	assert.Equal(t, OutcomeCreated, result.Outcome)
	assert.NotEmpty(t, result.TempPassword)

	// A webhook delivery for the same session lands on the recorded outcome.
	replay, err := svc.HandleCheckoutCompleted(context.Background(), completedCheckout(handle.SessionRef))
	assert.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyProcessed, replay.Outcome)
	assert.Equal(t, result.UserID, replay.UserID)
	assert.Len(t, repo.users, 1)
}

func TestVerifyCheckoutSessionUnpaid(t *testing.T) {
	svc, repo, gateway, _ := newTestService()

	gateway.sessionDetails["cs_open"] = &payment.SessionDetails{
		ID:            "cs_open",
		PaymentStatus: "unpaid",
	}

	_, err := svc.VerifyCheckoutSession(context.Background(), "cs_open")
	assert.ErrorIs(t, err, ErrSessionNotPaid)
	assert.Empty(t, repo.users)
}

func TestInitiateCheckoutChargesTheCalculatedAmount(t *testing.T) {
	price, err := CalculatePrice(PlanMonthly, true)
	assert.NoError(t, err)

	items := checkoutLineItems(PlanMonthly, price)
	var total int64
	for _, item := range items {
		total += item.Amount * int64(item.Quantity)
	}
	assert.Equal(t, price.InitialAmount, total)
	assert.Len(t, items, 3)

	price, err = CalculatePrice(PlanYearly, false)
	assert.NoError(t, err)
	items = checkoutLineItems(PlanYearly, price)
	total = 0
	for _, item := range items {
		total += item.Amount * int64(item.Quantity)
	}
	assert.Equal(t, price.InitialAmount, total)
	assert.Len(t, items, 2)
}
