package controllers

import (
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/castboard/castboard/internal/pkg/billing"
	"github.com/castboard/castboard/internal/pkg/database"
	"github.com/castboard/castboard/internal/pkg/env"
	"github.com/castboard/castboard/internal/pkg/hcaptcha"
	"github.com/castboard/castboard/internal/pkg/jobqueue"
	"github.com/castboard/castboard/internal/pkg/mail"
	"github.com/castboard/castboard/internal/pkg/payment"
)

var (
	billingSvc     *billing.Service
	billingSvcOnce sync.Once
)

// BillingService returns the shared billing pipeline service, wired to the
// database, the payment processor client and the mail queue.
func BillingService() *billing.Service {
	billingSvcOnce.Do(func() {
		notifier := mail.NewQueueNotifier(jobqueue.GetManager().GetQueue())
		appURL := env.GetEnv("PUBLIC_DOMAIN", "https://app.castboard.io")
		billingSvc = billing.NewServiceFromDB(
			database.GetDB(),
			payment.NewClientFromEnv(),
			notifier,
			billing.URLs{
				SuccessURL: appURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
				CancelURL:  appURL + "/checkout/cancelled",
			},
		)
	})
	return billingSvc
}

// SetBillingService overrides the shared service. Test hook.
func SetBillingService(svc *billing.Service) {
	billingSvcOnce.Do(func() {})
	billingSvc = svc
}

type checkoutCreateRequest struct {
	billing.CheckoutRequest
	CaptchaToken string `json:"captcha_token"`
}

// HandleCheckoutCreate opens a checkout session for an applicant. Public
// endpoint; everything sensitive happens at the payment processor. Captcha
// verification is active as soon as HCAPTCHA_SECRET is configured.
func HandleCheckoutCreate(c *fiber.Ctx) error {
	var req checkoutCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_request", "malformed request body")
	}

	if env.GetEnv("HCAPTCHA_SECRET", "") != "" {
		ok, err := hcaptcha.Verify(req.CaptchaToken)
		if err != nil || !ok {
			return jsonError(c, fiber.StatusBadRequest, "captcha_failed", "captcha verification failed")
		}
	}

	handle, err := BillingService().InitiateCheckout(c.Context(), req.CheckoutRequest)
	if err != nil {
		if errors.Is(err, billing.ErrUnknownPlan) {
			return jsonError(c, fiber.StatusBadRequest, "unknown_plan", "plan must be monthly or yearly")
		}
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			return jsonError(c, fiber.StatusBadRequest, "invalid_input", vErrs.Error())
		}
		return jsonError(c, fiber.StatusBadGateway, "checkout_failed", "could not open checkout session")
	}

	return c.Status(fiber.StatusCreated).JSON(handle)
}

// HandleCheckoutVerify lets the success page poll for the provisioning
// outcome when the redirect beats the webhook. Same provisioner as the
// webhook path, so double delivery is harmless.
func HandleCheckoutVerify(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")
	if sessionID == "" {
		return jsonError(c, fiber.StatusBadRequest, "missing_session", "session_id is required")
	}

	result, err := BillingService().VerifyCheckoutSession(c.Context(), sessionID)
	if err != nil {
		if errors.Is(err, billing.ErrSessionNotPaid) {
			return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "pending_payment"})
		}
		if errors.Is(err, billing.ErrApplicationNotFound) {
			return jsonError(c, fiber.StatusNotFound, "unknown_session", "no application for this session")
		}
		return jsonError(c, fiber.StatusInternalServerError, "verify_failed", "could not verify checkout session")
	}

	return c.JSON(result)
}
