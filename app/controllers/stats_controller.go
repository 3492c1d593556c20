package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/castboard/castboard/internal/pkg/statistics"
)

// HandleStats returns the platform numbers for the operator dashboard.
// Admin only, cached in Redis.
func HandleStats(c *fiber.Ctx) error {
	return c.JSON(statistics.GetStatisticsData())
}
