package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/castboard/castboard/internal/pkg/billing"
)

// HandlePricingQuote is the public price calculator behind the signup page:
// GET /api/v1/pricing?plan=monthly&custom_domain=true. It runs the same
// calculation the checkout uses, so the quote always matches the invoice.
func HandlePricingQuote(c *fiber.Ctx) error {
	plan := c.Query("plan", billing.PlanMonthly)
	addOn := c.QueryBool("custom_domain", false)

	breakdown, err := billing.CalculatePrice(plan, addOn)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "unknown_plan", "plan must be monthly or yearly")
	}

	return c.JSON(fiber.Map{
		"plan":  billing.NormalizePlan(plan),
		"price": breakdown,
	})
}
