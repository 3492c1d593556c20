package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/castboard/castboard/internal/pkg/billing"
	"github.com/castboard/castboard/internal/pkg/env"
	"github.com/castboard/castboard/internal/pkg/payment"
)

const webhookTimeout = 25 * time.Second

// HandlePaymentWebhook receives event notifications from the payment
// processor. Response policy: 401 only for a bad signature; once the payload
// is authenticated the endpoint answers 200 even for events it ignores or
// fails to apply, because processor retries cannot fix a handler bug and a
// retry storm helps nobody. Failures are compensated or logged for the
// operator instead.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := c.Get("Payment-Signature")
	secret := env.GetEnv("PAYMENT_WEBHOOK_SECRET", "")

	if err := payment.VerifySignature(rawBody, signature, secret, payment.DefaultSignatureTolerance); err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "invalid_signature", "webhook signature verification failed")
	}

	event, err := payment.ParseEvent(rawBody)
	if err != nil {
		log.Errorf("[Webhook] unparseable event: %v", err)
		return c.JSON(fiber.Map{"ok": true, "ignored": true})
	}

	ctx, cancel := context.WithTimeout(context.Background(), webhookTimeout)
	defer cancel()

	switch event.Kind {
	case payment.EventCheckoutCompleted:
		return handleCheckoutCompletedEvent(ctx, c, event)
	case payment.EventSubscriptionUpdated, payment.EventSubscriptionDeleted,
		payment.EventInvoicePaid, payment.EventInvoicePaymentFailed:
		return handleSubscriptionEvent(ctx, c, event)
	default:
		return c.JSON(fiber.Map{"ok": true, "ignored": true})
	}
}

func handleCheckoutCompletedEvent(ctx context.Context, c *fiber.Ctx, event *payment.Event) error {
	data, err := event.CheckoutCompleted()
	if err != nil {
		log.Errorf("[Webhook] invalid checkout payload in event %s: %v", event.ID, err)
		return c.JSON(fiber.Map{"ok": true, "ignored": true})
	}

	result, err := BillingService().HandleCheckoutCompleted(ctx, billing.CompletedCheckout{
		SessionRef:      data.SessionID,
		PaymentRef:      data.PaymentRef,
		CustomerRef:     data.CustomerRef,
		SubscriptionRef: data.SubscriptionRef,
		AmountCaptured:  data.AmountTotal,
		Currency:        data.Currency,
		CustomerEmail:   data.CustomerEmail,
	})
	if err != nil {
		// Provisioning failed and compensation has already run; ack so the
		// processor stops redelivering a payload that cannot succeed.
		log.Errorf("[Webhook] provisioning for session %s failed: %v", data.SessionID, err)
		return c.JSON(fiber.Map{"ok": true, "compensated": true})
	}

	return c.JSON(fiber.Map{"ok": true, "outcome": result.Outcome})
}

func handleSubscriptionEvent(ctx context.Context, c *fiber.Ctx, event *payment.Event) error {
	sub, err := subscriptionEventFromPayload(event)
	if err != nil {
		log.Errorf("[Webhook] invalid subscription payload in event %s: %v", event.ID, err)
		return c.JSON(fiber.Map{"ok": true, "ignored": true})
	}

	if err := BillingService().SyncSubscriptionState(ctx, sub); err != nil {
		if errors.Is(err, billing.ErrBillingNotFound) {
			// Subscription we never provisioned, e.g. created directly in the
			// processor dashboard. Nothing to sync.
			return c.JSON(fiber.Map{"ok": true, "ignored": true})
		}
		log.Errorf("[Webhook] subscription sync for event %s failed: %v", event.ID, err)
		return c.JSON(fiber.Map{"ok": true, "deferred": true})
	}

	return c.JSON(fiber.Map{"ok": true})
}

// subscriptionEventFromPayload normalizes the processor payload for the
// billing state machine.
func subscriptionEventFromPayload(event *payment.Event) (billing.SubscriptionEvent, error) {
	switch event.Kind {
	case payment.EventSubscriptionUpdated, payment.EventSubscriptionDeleted:
		data, err := event.Subscription()
		if err != nil {
			return billing.SubscriptionEvent{}, err
		}
		return billing.SubscriptionEvent{
			Kind:              event.Kind,
			SubscriptionRef:   data.SubscriptionRef,
			Status:            data.Status,
			CancelAtPeriodEnd: data.CancelAtPeriodEnd,
		}, nil
	case payment.EventInvoicePaid, payment.EventInvoicePaymentFailed:
		data, err := event.Invoice()
		if err != nil {
			return billing.SubscriptionEvent{}, err
		}
		return billing.SubscriptionEvent{
			Kind:            event.Kind,
			SubscriptionRef: data.SubscriptionRef,
		}, nil
	default:
		return billing.SubscriptionEvent{}, errors.New("not a subscription event")
	}
}
