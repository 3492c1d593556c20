package controllers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/castboard/castboard/internal/pkg/payment"
)

func parsedEvent(t *testing.T, wireType string, data any) *payment.Event {
	t.Helper()

	raw, err := json.Marshal(map[string]any{
		"id":   "evt_1",
		"type": wireType,
		"data": data,
	})
	assert.NoError(t, err)

	event, err := payment.ParseEvent(raw)
	assert.NoError(t, err)

	return event
}

func TestSubscriptionEventFromPayloadSubscriptionUpdate(t *testing.T) {
	event := parsedEvent(t, "customer.subscription.updated", map[string]any{
		"subscription_ref":     "sub_1",
		"status":               "active",
		"cancel_at_period_end": true,
	})

	sub, err := subscriptionEventFromPayload(event)
	assert.NoError(t, err)
	assert.Equal(t, payment.EventSubscriptionUpdated, sub.Kind)
	assert.Equal(t, "sub_1", sub.SubscriptionRef)
	assert.Equal(t, "active", sub.Status)
	assert.True(t, sub.CancelAtPeriodEnd)
}

func TestSubscriptionEventFromPayloadInvoice(t *testing.T) {
	event := parsedEvent(t, "invoice.payment_failed", map[string]any{
		"subscription_ref": "sub_2",
		"amount_due":       2900,
		"currency":         "EUR",
	})

	sub, err := subscriptionEventFromPayload(event)
	assert.NoError(t, err)
	assert.Equal(t, payment.EventInvoicePaymentFailed, sub.Kind)
	assert.Equal(t, "sub_2", sub.SubscriptionRef)
}

func TestSubscriptionEventFromPayloadRejectsMissingRef(t *testing.T) {
	event := parsedEvent(t, "customer.subscription.deleted", map[string]any{
		"status": "canceled",
	})

	_, err := subscriptionEventFromPayload(event)
	assert.Error(t, err)
}

func TestSubscriptionEventFromPayloadRejectsCheckout(t *testing.T) {
	event := parsedEvent(t, "checkout.session.completed", map[string]any{
		"session_id": "cs_1",
	})

	_, err := subscriptionEventFromPayload(event)
	assert.Error(t, err)
}
