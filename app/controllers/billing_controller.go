package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/castboard/castboard/internal/pkg/billing"
	"github.com/castboard/castboard/internal/pkg/session"
	"github.com/castboard/castboard/internal/pkg/usercontext"
)

// HandleBillingOverview returns the subscription state for the logged-in user.
func HandleBillingOverview(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "login required")
	}

	overview, err := BillingService().GetBillingOverview(c.Context(), userID)
	if err != nil {
		if errors.Is(err, billing.ErrBillingNotFound) {
			return jsonError(c, fiber.StatusNotFound, "no_billing", "no subscription for this account")
		}
		return jsonError(c, fiber.StatusInternalServerError, "billing_failed", "could not load billing overview")
	}

	return c.JSON(overview)
}

// HandleBillingCancel schedules the subscription to end at the period
// boundary. Access stays until the already-paid period runs out.
func HandleBillingCancel(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "login required")
	}

	if err := BillingService().CancelSubscription(c.Context(), userID); err != nil {
		if errors.Is(err, billing.ErrBillingNotFound) {
			return jsonError(c, fiber.StatusNotFound, "no_billing", "no subscription for this account")
		}
		return jsonError(c, fiber.StatusInternalServerError, "cancel_failed", "could not cancel subscription")
	}

	// The plan is cached per session, drop it so the next request re-reads it.
	_ = session.SetSessionValue(c, "user_plan", "")

	return c.JSON(fiber.Map{"ok": true, "status": "cancelled"})
}

// HandleBillingReactivate undoes a pending cancellation before the period end.
func HandleBillingReactivate(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "login required")
	}

	if err := BillingService().ReactivateSubscription(c.Context(), userID); err != nil {
		if errors.Is(err, billing.ErrBillingNotFound) {
			return jsonError(c, fiber.StatusNotFound, "no_billing", "no subscription for this account")
		}
		return jsonError(c, fiber.StatusInternalServerError, "reactivate_failed", "could not reactivate subscription")
	}

	_ = session.SetSessionValue(c, "user_plan", "")

	return c.JSON(fiber.Map{"ok": true, "status": "active"})
}
