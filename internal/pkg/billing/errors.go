package billing

import "errors"

var (
	// ErrUnknownPlan means the requested plan is not in the price table.
	ErrUnknownPlan = errors.New("unknown plan")

	// ErrApplicationNotFound means no application matches the checkout
	// session reference. From the webhook's perspective this is terminal:
	// retrying the delivery cannot make the application appear.
	ErrApplicationNotFound = errors.New("application not found for checkout session")

	// ErrBillingNotFound means no billing row matches the subscription
	// reference. Lifecycle events for foreign subscriptions are logged and
	// acknowledged, never retried.
	ErrBillingNotFound = errors.New("billing record not found for subscription")

	// ErrSessionNotPaid is returned by verify-by-polling when the processor
	// reports the session as not (yet) paid.
	ErrSessionNotPaid = errors.New("checkout session is not paid")

	// ErrRefundFailed wraps a failed refund call. This is the one failure
	// mode that requires a human: money moved, no account exists, and the
	// automatic compensation could not return the money.
	ErrRefundFailed = errors.New("refund request failed")
)
