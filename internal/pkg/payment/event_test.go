package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEventKind(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "checkout.session.completed", want: EventCheckoutCompleted},
		{in: "customer.subscription.updated", want: EventSubscriptionUpdated},
		{in: "customer.subscription.deleted", want: EventSubscriptionDeleted},
		{in: "invoice.paid", want: EventInvoicePaid},
		{in: "invoice.payment_succeeded", want: EventInvoicePaid},
		{in: "invoice.payment_failed", want: EventInvoicePaymentFailed},
		{in: "charge.dispute.created", want: EventKindUnknown},
		{in: "", want: EventKindUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeEventKind(tt.in), "wire type %q", tt.in)
	}
}

func TestParseEvent(t *testing.T) {
	payload := []byte(`{
		"id": "evt_42",
		"type": "checkout.session.completed",
		"data": {
			"session_id": "cs_100",
			"payment_ref": "py_100",
			"customer_ref": "cus_100",
			"subscription_ref": "sub_100",
			"amount_total": 7800,
			"currency": "EUR",
			"customer_email": "jane@example.com"
		}
	}`)

	ev, err := ParseEvent(payload)
	assert.NoError(t, err)
	assert.Equal(t, "evt_42", ev.ID)
	assert.Equal(t, EventCheckoutCompleted, ev.Kind)

	data, err := ev.CheckoutCompleted()
	assert.NoError(t, err)
	assert.Equal(t, "cs_100", data.SessionID)
	assert.Equal(t, int64(7800), data.AmountTotal)
	assert.Equal(t, "jane@example.com", data.CustomerEmail)
}

func TestParseEventMissingType(t *testing.T) {
	_, err := ParseEvent([]byte(`{"id":"evt_1","data":{}}`))
	assert.Error(t, err)
}

func TestEventPayloadValidation(t *testing.T) {
	ev := &Event{Data: []byte(`{}`)}

	_, err := ev.CheckoutCompleted()
	assert.Error(t, err)

	_, err = ev.Subscription()
	assert.Error(t, err)

	_, err = ev.Invoice()
	assert.Error(t, err)
}
