package billing

import (
	"context"
	"testing"
	"time"

	"github.com/castboard/castboard/app/models"
	"github.com/stretchr/testify/assert"
)

func seedPendingApplication(t *testing.T, repo *fakeRepository, sessionRef string) *models.Application {
	t.Helper()
	app := &models.Application{
		FirstName:          "Jane",
		LastName:           "Doe",
		Email:              "jane@example.com",
		City:               "Berlin",
		Country:            "Germany",
		Purposes:           "model,actor",
		Plan:               PlanMonthly,
		CustomDomainAddOn:  true,
		CheckoutSessionRef: sessionRef,
		Status:             models.ApplicationStatusPending,
	}
	assert.NoError(t, repo.CreateApplication(app))
	return app
}

func TestProvisionCreatesAccountExactlyOnce(t *testing.T) {
	svc, repo, gateway, notifier := newTestService()
	atTime(svc, date(2026, time.March, 15))
	seedPendingApplication(t, repo, "cs_1")

	first, err := svc.HandleCheckoutCompleted(context.Background(), completedCheckout("cs_1"))
	assert.NoError(t, err)
	assert.Equal(t, OutcomeCreated, first.Outcome)
	assert.Equal(t, "jane@example.com", first.Email)
	assert.NotEmpty(t, first.TempPassword)

	// Webhooks redeliver; every replay must return the recorded outcome and
	// leave the datastore untouched.
	for i := 0; i < 3; i++ {
		replay, err := svc.HandleCheckoutCompleted(context.Background(), completedCheckout("cs_1"))
		assert.NoError(t, err)
		assert.Equal(t, OutcomeAlreadyProcessed, replay.Outcome)
		assert.Equal(t, first.UserID, replay.UserID)
		assert.Empty(t, replay.TempPassword)
	}

	assert.Len(t, repo.users, 1)
	assert.Len(t, repo.profiles, 1)
	assert.Len(t, repo.billings, 1)
	assert.Len(t, notifier.credentials, 1, "credentials go out once, on first processing only")
	assert.Zero(t, gateway.refundCount())
}

func TestProvisionWritesBillingRecord(t *testing.T) {
	svc, repo, _, _ := newTestService()
	atTime(svc, date(2026, time.January, 31))
	seedPendingApplication(t, repo, "cs_1")

	result, err := svc.HandleCheckoutCompleted(context.Background(), completedCheckout("cs_1"))
	assert.NoError(t, err)

	billing, err := repo.BillingByUserID(result.UserID)
	assert.NoError(t, err)
	assert.Equal(t, models.BillingStatusActive, billing.Status)
	assert.Equal(t, PlanMonthly, billing.BillingType)
	assert.Equal(t, 31, billing.BillingDay)
	assert.Equal(t, "cus_cs_1", billing.CustomerRef)
	assert.Equal(t, "sub_cs_1", billing.SubscriptionRef)
	assert.Equal(t, int64(4900), billing.SetupFee)
	assert.Equal(t, int64(2900), billing.RecurringAmount)
	assert.Equal(t, int64(900), billing.CustomAddOnFee)
	assert.Equal(t, int64(8700), billing.InitialAmount)
	if assert.NotNil(t, billing.NextBillingDate) {
		assert.Equal(t, date(2026, time.February, 28), *billing.NextBillingDate)
	}
}

func TestProvisionIssuesUsableCredentials(t *testing.T) {
	svc, repo, _, _ := newTestService()
	seedPendingApplication(t, repo, "cs_1")

	result, err := svc.HandleCheckoutCompleted(context.Background(), completedCheckout("cs_1"))
	assert.NoError(t, err)

	user, err := repo.UserByEmail(result.Email)
	assert.NoError(t, err)
	assert.True(t, user.CheckPassword(result.TempPassword))
	assert.NotEqual(t, result.TempPassword, user.Password, "only the hash is stored")
}

func TestProvisionLinksExistingAccount(t *testing.T) {
	svc, repo, _, notifier := newTestService()
	seedPendingApplication(t, repo, "cs_1")

	existing := &models.User{Name: "Jane Doe", Email: "jane@example.com", Password: "x", Status: models.STATUS_ACTIVE}
	assert.NoError(t, repo.CreateUser(existing))

	result, err := svc.HandleCheckoutCompleted(context.Background(), completedCheckout("cs_1"))
	assert.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyExisted, result.Outcome)
	assert.Equal(t, existing.ID, result.UserID)
	assert.Empty(t, result.TempPassword)

	assert.Len(t, repo.users, 1)
	assert.Empty(t, notifier.credentials, "no credentials for an account that already existed")

	app, err := repo.ApplicationBySessionRef("cs_1")
	assert.NoError(t, err)
	assert.True(t, app.Processed)
	assert.Equal(t, models.ApplicationStatusCompleted, app.Status)
}

func TestProvisionFailureRollsBackAndRefunds(t *testing.T) {
	svc, repo, gateway, notifier := newTestService()
	seedPendingApplication(t, repo, "cs_1")
	repo.failCreateBilling = errInjected

	_, err := svc.HandleCheckoutCompleted(context.Background(), completedCheckout("cs_1"))
	assert.ErrorIs(t, err, errInjected)

	// Nothing partial survives the rollback.
	assert.Empty(t, repo.users)
	assert.Empty(t, repo.profiles)
	assert.Empty(t, repo.billings)

	// The captured payment was compensated and both sides were told.
	assert.Equal(t, 1, gateway.refundCount())
	assert.Len(t, notifier.refundNotices, 1)
	assert.Contains(t, notifier.alertSubjects(), "Checkout refunded after provisioning failure")

	app, err := repo.ApplicationBySessionRef("cs_1")
	assert.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusRefunded, app.Status)
	assert.NotEmpty(t, app.LastError)
}

func TestProvisionAfterRefundIsTerminal(t *testing.T) {
	svc, repo, gateway, notifier := newTestService()
	seedPendingApplication(t, repo, "cs_1")
	repo.failCreateBilling = errInjected

	_, err := svc.HandleCheckoutCompleted(context.Background(), completedCheckout("cs_1"))
	assert.Error(t, err)
	assert.Equal(t, 1, gateway.refundCount())

	// The transient fault clears, then a late redelivery arrives. The money
	// already went back, so no account may be created.
	repo.failCreateBilling = nil
	result, err := svc.HandleCheckoutCompleted(context.Background(), completedCheckout("cs_1"))
	assert.NoError(t, err)
	assert.Equal(t, OutcomeRefunded, result.Outcome)
	assert.Empty(t, repo.users)
	assert.Equal(t, 1, gateway.refundCount())
	assert.Empty(t, notifier.credentials)
}

func TestProvisionUnknownSessionRefundsOrphanPayment(t *testing.T) {
	svc, repo, gateway, notifier := newTestService()

	_, err := svc.HandleCheckoutCompleted(context.Background(), completedCheckout("cs_ghost"))
	assert.ErrorIs(t, err, ErrApplicationNotFound)

	assert.Empty(t, repo.users)
	assert.Equal(t, 1, gateway.refundCount())
	assert.Contains(t, notifier.alertSubjects(), "Checkout refunded after provisioning failure")
}
