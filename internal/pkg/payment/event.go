package payment

import (
	"encoding/json"
	"errors"
	"strings"
)

// Internal event kinds the pipeline routes on. The processor's wire types
// are normalized into these; anything unmapped becomes EventKindUnknown and
// is acknowledged without processing.
const (
	EventCheckoutCompleted    = "checkout_completed"
	EventSubscriptionUpdated  = "subscription_updated"
	EventSubscriptionDeleted  = "subscription_deleted"
	EventInvoicePaid          = "invoice_paid"
	EventInvoicePaymentFailed = "invoice_payment_failed"
	EventKindUnknown          = "unknown"
)

// Event is the parsed webhook envelope. Data stays raw until the handler for
// the concrete kind decodes it.
type Event struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`

	Kind string `json:"-"`
}

// CheckoutCompletedData is the payload of a checkout_completed event. It
// carries enough identity to provision an account and, if provisioning
// fails, enough to refund without any local record.
type CheckoutCompletedData struct {
	SessionID       string `json:"session_id"`
	PaymentRef      string `json:"payment_ref"`
	CustomerRef     string `json:"customer_ref"`
	SubscriptionRef string `json:"subscription_ref"`
	AmountTotal     int64  `json:"amount_total"`
	Currency        string `json:"currency"`
	CustomerEmail   string `json:"customer_email"`
}

// SubscriptionData is the payload of subscription_updated/deleted events.
type SubscriptionData struct {
	SubscriptionRef   string `json:"subscription_ref"`
	Status            string `json:"status"`
	CancelAtPeriodEnd bool   `json:"cancel_at_period_end"`
}

// InvoiceData is the payload of invoice_paid/payment_failed events.
type InvoiceData struct {
	SubscriptionRef string `json:"subscription_ref"`
	AmountDue       int64  `json:"amount_due"`
	Currency        string `json:"currency"`
}

// ParseEvent decodes the webhook envelope and normalizes the event kind.
func ParseEvent(payload []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, err
	}
	if strings.TrimSpace(ev.Type) == "" {
		return nil, errors.New("webhook payload missing event type")
	}
	ev.Kind = NormalizeEventKind(ev.Type)
	return &ev, nil
}

// NormalizeEventKind maps the processor's wire event types onto the internal
// kinds the pipeline routes on.
func NormalizeEventKind(wireType string) string {
	switch strings.ToLower(strings.TrimSpace(wireType)) {
	case "checkout.session.completed":
		return EventCheckoutCompleted
	case "customer.subscription.updated":
		return EventSubscriptionUpdated
	case "customer.subscription.deleted":
		return EventSubscriptionDeleted
	case "invoice.paid", "invoice.payment_succeeded":
		return EventInvoicePaid
	case "invoice.payment_failed":
		return EventInvoicePaymentFailed
	default:
		return EventKindUnknown
	}
}

func (e *Event) CheckoutCompleted() (*CheckoutCompletedData, error) {
	var data CheckoutCompletedData
	if err := json.Unmarshal(e.Data, &data); err != nil {
		return nil, err
	}
	if strings.TrimSpace(data.SessionID) == "" {
		return nil, errors.New("checkout_completed payload missing session_id")
	}
	return &data, nil
}

func (e *Event) Subscription() (*SubscriptionData, error) {
	var data SubscriptionData
	if err := json.Unmarshal(e.Data, &data); err != nil {
		return nil, err
	}
	if strings.TrimSpace(data.SubscriptionRef) == "" {
		return nil, errors.New("subscription payload missing subscription_ref")
	}
	return &data, nil
}

func (e *Event) Invoice() (*InvoiceData, error) {
	var data InvoiceData
	if err := json.Unmarshal(e.Data, &data); err != nil {
		return nil, err
	}
	if strings.TrimSpace(data.SubscriptionRef) == "" {
		return nil, errors.New("invoice payload missing subscription_ref")
	}
	return &data, nil
}
