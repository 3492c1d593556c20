package billing

import (
	"context"
	"sync"
	"testing"

	"github.com/castboard/castboard/app/models"
	"github.com/stretchr/testify/assert"
)

func compensationInput(sessionRef string) CompensationInput {
	return CompensationInput{
		SessionRef:    sessionRef,
		PaymentRef:    "py_" + sessionRef,
		Amount:        7800,
		Currency:      "EUR",
		CustomerEmail: "jane@example.com",
		Cause:         errInjected,
	}
}

func TestCompensateRefundsExactlyOnce(t *testing.T) {
	svc, repo, gateway, notifier := newTestService()
	seedPendingApplication(t, repo, "cs_1")

	assert.NoError(t, svc.Compensate(context.Background(), compensationInput("cs_1")))
	assert.NoError(t, svc.Compensate(context.Background(), compensationInput("cs_1")))

	assert.Equal(t, 1, gateway.refundCount())
	assert.Len(t, notifier.refundNotices, 1)

	app, err := repo.ApplicationBySessionRef("cs_1")
	assert.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusRefunded, app.Status)
	assert.Equal(t, errInjected.Error(), app.LastError)
}

func TestCompensateConcurrentFailuresProduceOneRefund(t *testing.T) {
	svc, repo, gateway, _ := newTestService()
	seedPendingApplication(t, repo, "cs_1")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.Compensate(context.Background(), compensationInput("cs_1")))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, gateway.refundCount())
}

func TestCompensateRefundFailureEscalatesToManualReview(t *testing.T) {
	svc, repo, gateway, notifier := newTestService()
	seedPendingApplication(t, repo, "cs_1")
	gateway.failRefund = errInjected

	err := svc.Compensate(context.Background(), compensationInput("cs_1"))
	assert.ErrorIs(t, err, ErrRefundFailed)

	assert.Contains(t, notifier.alertSubjects(), "MANUAL REVIEW REQUIRED: refund failed")
	assert.Empty(t, notifier.refundNotices, "no customer notice for a refund that did not happen")

	app, appErr := repo.ApplicationBySessionRef("cs_1")
	assert.NoError(t, appErr)
	assert.Equal(t, models.ApplicationStatusFailed, app.Status)
	assert.NotEmpty(t, app.LastError)
}

func TestCompensateRetriesAfterFailedRefund(t *testing.T) {
	svc, repo, gateway, notifier := newTestService()
	seedPendingApplication(t, repo, "cs_1")

	gateway.failRefund = errInjected
	assert.ErrorIs(t, svc.Compensate(context.Background(), compensationInput("cs_1")), ErrRefundFailed)

	// The processor recovers; an independent retry completes the saga.
	gateway.failRefund = nil
	assert.NoError(t, svc.Compensate(context.Background(), compensationInput("cs_1")))

	assert.Equal(t, 1, gateway.refundCount())
	assert.Len(t, notifier.refundNotices, 1)

	app, err := repo.ApplicationBySessionRef("cs_1")
	assert.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusRefunded, app.Status)
}

func TestCompensateOrphanPayment(t *testing.T) {
	svc, _, gateway, notifier := newTestService()

	assert.NoError(t, svc.Compensate(context.Background(), compensationInput("cs_unknown")))
	assert.Equal(t, 1, gateway.refundCount())
	assert.Contains(t, notifier.alertSubjects(), "Checkout refunded after provisioning failure")
}
